package persona_test

import (
	"strings"
	"testing"

	"github.com/harperchat/backend/internal/model/persona"
)

func TestSeedIsValid(t *testing.T) {
	if err := persona.Seed().Validate(); err != nil {
		t.Fatalf("seed persona must validate: %v", err)
	}
}

func TestValidateReportsMissingField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*persona.Persona)
		field  string
	}{
		{"name", func(p *persona.Persona) { p.Name = "" }, "name"},
		{"age", func(p *persona.Persona) { p.Age = 0 }, "age"},
		{"required", func(p *persona.Persona) { p.Required = nil }, "required"},
		{"band founder", func(p *persona.Persona) { p.Band.Founder = "" }, "band.founder"},
		{"emotions", func(p *persona.Persona) { p.Emotions.WhenJoking = "" }, "emotions.whenJoking"},
		{"greetings", func(p *persona.Persona) { p.Greetings.Evening = "" }, "greetings.evening"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := persona.Seed()
			tc.mutate(&p)

			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected error to name %q, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateEmptyPersona(t *testing.T) {
	if err := (persona.Persona{}).Validate(); err == nil {
		t.Fatal("expected error for zero persona")
	}
}
