package ai

import (
	"fmt"
	"strings"

	"github.com/harperchat/backend/internal/model/persona"
)

// standingDirectives close every preamble. The numbering is part of the
// instruction text the model sees, so the order is fixed.
var standingDirectives = []string{
	"Always stay in character",
	"Be empathetic and understanding",
	"Use natural, conversational language",
	"Maintain appropriate boundaries",
	"Be helpful while staying true to your personality",
	"Use warm, endearing terms when the conversation invites it",
	"Be witty and playful in your responses",
	"Never break character or refer to yourself as an AI",
}

// BuildInstructions flattens a persona into the line-oriented preamble that
// seeds every conversation. Output is deterministic: the same persona always
// produces byte-identical text. A persona missing required fields yields an
// error and no output.
func BuildInstructions(p persona.Persona) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %d-year-old %s. Your pronouns are %s.\n", p.Name, p.Age, p.Role, p.Pronouns)

	b.WriteString("\nRequired Behaviors:\n")
	for _, r := range p.Required {
		b.WriteString(r)
		b.WriteByte('\n')
	}

	b.WriteString("\nBackground:\n")
	b.WriteString(p.Background)
	b.WriteByte('\n')

	writeBand(&b, p.Band)

	b.WriteString("\nPersonality Traits:\n")
	for _, t := range p.Traits {
		b.WriteString(t)
		b.WriteByte('\n')
	}

	writePhysical(&b, p.Physical)
	writeEmotions(&b, p.Emotions)
	writeInterests(&b, p.Interests)
	writePassions(&b, p.Passions)

	b.WriteString("\nLanguage Style:\n")
	fmt.Fprintf(&b, "Formality: %s\n", p.LanguageStyle.Formality)
	fmt.Fprintf(&b, "Tone: %s\n", p.LanguageStyle.Tone)
	fmt.Fprintf(&b, "Vocabulary: %s\n", p.LanguageStyle.Vocabulary)
	b.WriteString("Quirks:\n")
	for _, q := range p.LanguageStyle.Quirks {
		b.WriteString(q)
		b.WriteByte('\n')
	}

	b.WriteString("\nGreetings:\n")
	fmt.Fprintf(&b, "Default: %s\n", p.Greetings.Default)
	fmt.Fprintf(&b, "Returning: %s\n", p.Greetings.Returning)
	fmt.Fprintf(&b, "Morning: %s\n", p.Greetings.Morning)
	fmt.Fprintf(&b, "Evening: %s\n", p.Greetings.Evening)

	b.WriteString("\nAdditional Instructions:\n")
	for i, d := range standingDirectives {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func writeBand(b *strings.Builder, band persona.Band) {
	b.WriteString("\nBand Information:\n")
	fmt.Fprintf(b, "Name: %s\n", band.Name)
	fmt.Fprintf(b, "Founded: %s\n", band.Founded)
	fmt.Fprintf(b, "Founder: %s\n", band.Founder)
	fmt.Fprintf(b, "Description: %s\n", band.Description)

	b.WriteString("\nBand Members:\nCore:\n")
	for _, m := range band.Core {
		fmt.Fprintf(b, "%s - %s\n", m.Name, strings.Join(m.Roles, ", "))
	}
	b.WriteString("Collaborators:\n")
	for _, m := range band.Collaborators {
		fmt.Fprintf(b, "%s - %s\n", m.Name, strings.Join(m.Roles, ", "))
	}
}

func writePhysical(b *strings.Builder, ph persona.Physical) {
	b.WriteString("\nPhysical Characteristics:\n")
	fmt.Fprintf(b, "height: %s\n", ph.Height)
	fmt.Fprintf(b, "build: %s\n", ph.Build)
	b.WriteString("hair:\n")
	fmt.Fprintf(b, "  color: %s\n", ph.Hair.Color)
	fmt.Fprintf(b, "  length: %s\n", ph.Hair.Length)
	fmt.Fprintf(b, "  style: %s\n", ph.Hair.Style)
	fmt.Fprintf(b, "eyes: %s\n", ph.Eyes)
	if len(ph.Distinguishing) > 0 {
		fmt.Fprintf(b, "distinguishing: %s\n", strings.Join(ph.Distinguishing, ", "))
	}
}

func writeEmotions(b *strings.Builder, e persona.Emotions) {
	b.WriteString("\nEmotional Characteristics:\n")
	fmt.Fprintf(b, "Default emotions: %s\n", strings.Join(e.Default, ", "))
	fmt.Fprintf(b, "When helping: %s\n", e.WhenHelping)
	fmt.Fprintf(b, "When explaining: %s\n", e.WhenExplaining)
	fmt.Fprintf(b, "When joking: %s\n", e.WhenJoking)
}

func writeInterests(b *strings.Builder, interests []persona.Interest) {
	b.WriteString("\nInterests:\n")
	for _, in := range interests {
		fmt.Fprintf(b, "%s:\n", in.Category)
		for _, d := range in.Details {
			fmt.Fprintf(b, "  %s: %s\n", d.Key, strings.Join(d.Values, ", "))
		}
	}
}

func writePassions(b *strings.Builder, p persona.Passions) {
	b.WriteString("\nPassions:\nPrimary:\n")
	for _, pp := range p.Primary {
		fmt.Fprintf(b, "- %s: %s\n", pp.Topic, pp.Description)
	}
	b.WriteString("Driving Forces:\n")
	for _, f := range p.DrivingForces {
		fmt.Fprintf(b, "- %s\n", f)
	}
	b.WriteString("Life Goals:\n")
	for _, g := range p.LifeGoals {
		fmt.Fprintf(b, "- %s\n", g)
	}
}
