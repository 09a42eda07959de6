package ai_test

import (
	"strings"
	"testing"

	"github.com/harperchat/backend/internal/model/persona"
	"github.com/harperchat/backend/internal/service/ai"
)

func TestBuildInstructionsDeterministic(t *testing.T) {
	p := persona.Seed()

	first, err := ai.BuildInstructions(p)
	if err != nil {
		t.Fatalf("BuildInstructions err: %v", err)
	}
	second, err := ai.BuildInstructions(p)
	if err != nil {
		t.Fatalf("BuildInstructions err: %v", err)
	}

	if first != second {
		t.Fatal("expected identical output for identical persona")
	}
}

func TestBuildInstructionsContent(t *testing.T) {
	out, err := ai.BuildInstructions(persona.Seed())
	if err != nil {
		t.Fatalf("BuildInstructions err: %v", err)
	}

	for _, want := range []string{
		"You are Harper, a 24-year-old indie musician and songwriter. Your pronouns are she/her.",
		"Required Behaviors:",
		"Band Information:",
		"Physical Characteristics:",
		"Emotional Characteristics:",
		"Language Style:",
		"Greetings:",
		"Additional Instructions:",
		"1. Always stay in character",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("instructions missing %q", want)
		}
	}
}

func TestBuildInstructionsMissingField(t *testing.T) {
	p := persona.Seed()
	p.Background = ""

	out, err := ai.BuildInstructions(p)
	if err == nil {
		t.Fatal("expected error for persona with missing field")
	}
	if out != "" {
		t.Fatalf("expected no output on error, got %d bytes", len(out))
	}
	if !strings.Contains(err.Error(), "background") {
		t.Fatalf("expected error to name the missing field, got %v", err)
	}
}

func TestBuildInstructionsEmptyPersona(t *testing.T) {
	if _, err := ai.BuildInstructions(persona.Persona{}); err == nil {
		t.Fatal("expected error for zero persona")
	}
}
