package similarity

import "testing"

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Jean Dupont", "jean dupont"},
		{"diacritics stripped", "Éléonore Müller", "eleonore muller"},
		{"honorific m dot", "M. Dupont", "dupont"},
		{"honorific madame", "Madame Claire Fontaine", "claire fontaine"},
		{"honorific mlle", "Mlle Durand", "durand"},
		{"punctuation removed", "A.V.O.S. ANTWERPEN", "a v o s antwerpen"},
		{"whitespace collapsed", "  Paul   Martin  ", "paul martin"},
		{"digits kept", "Club 1815", "club 1815"},
		{"honorific only at start", "Martin Monsieur", "martin monsieur"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_Idempotence(t *testing.T) {
	n := NewNormalizer(nil)

	inputs := []string{
		"M. Jean-Pierre Dupont",
		"Mme Hélène de la Tour",
		"A.V.O.S. ANTWERPEN",
		"plongée calypso",
		"",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizer_NormalizePair(t *testing.T) {
	n := NewNormalizer(nil)

	got := n.NormalizePair("Dupont", "Jean")
	if got != "dupont jean" {
		t.Errorf("Expected 'dupont jean', got %q", got)
	}

	// Empty first name falls back to the single-name form.
	got = n.NormalizePair("Dupont", "  ")
	if got != "dupont" {
		t.Errorf("Expected 'dupont', got %q", got)
	}
}

func TestNormalizer_CustomTitles(t *testing.T) {
	n := NewNormalizer(&NormalizerConfig{Titles: []string{"dr"}})

	if got := n.Normalize("Dr. House"); got != "house" {
		t.Errorf("Expected 'house', got %q", got)
	}

	// Default titles are not stripped with a custom config.
	if got := n.Normalize("Mme Fontaine"); got != "mme fontaine" {
		t.Errorf("Expected 'mme fontaine', got %q", got)
	}
}
