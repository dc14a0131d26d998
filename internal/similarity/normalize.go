// Package similarity provides the string comparison primitives used by every
// matching strategy: a name normalizer that produces a canonical comparable
// form, and a normalized edit-distance similarity with shortcuts for
// containment, reversed word order and shared tokens.
//
// The club's records mix conventions freely ("DUPONT Jean", "Jean Dupont",
// "M. Dupont", accented vs unaccented spellings), so all comparisons go
// through Normalize before scoring.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizerConfig controls which honorific prefixes are stripped from names.
// The title list is configuration rather than a forked code path so that
// call sites needing a different rule set share one implementation.
type NormalizerConfig struct {
	// Titles are honorific tokens removed when anchored at the start of a
	// name, compared after lowercasing and punctuation removal.
	Titles []string `json:"titles"`
}

// DefaultNormalizerConfig returns the honorific set used across the club's
// records (French and English forms).
func DefaultNormalizerConfig() *NormalizerConfig {
	return &NormalizerConfig{
		Titles: []string{"m", "mr", "mrs", "mme", "mlle", "monsieur", "madame"},
	}
}

// Normalizer converts raw free-text names into a canonical lowercase form:
// diacritics stripped, honorific prefixes removed, punctuation dropped,
// whitespace collapsed. Normalization is deterministic, pure and idempotent.
type Normalizer struct {
	titles map[string]bool
}

// NewNormalizer creates a Normalizer from the given configuration.
// A nil config uses DefaultNormalizerConfig.
func NewNormalizer(config *NormalizerConfig) *Normalizer {
	if config == nil {
		config = DefaultNormalizerConfig()
	}

	titles := make(map[string]bool, len(config.Titles))
	for _, t := range config.Titles {
		titles[strings.ToLower(t)] = true
	}

	return &Normalizer{titles: titles}
}

// stripMarks removes Unicode combining marks after NFD decomposition,
// turning "é" into "e", "ç" into "c" and so on.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical comparable form of a raw name.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(raw)

	if decomposed, _, err := transform.String(stripMarks, s); err == nil {
		s = decomposed
	}

	// Everything outside [a-z0-9] becomes a separator.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())

	// Honorifics are only stripped while anchored at the start.
	for len(tokens) > 0 && n.titles[tokens[0]] {
		tokens = tokens[1:]
	}

	return strings.Join(tokens, " ")
}

// NormalizePair normalizes a last name with an optional separate first name
// into one comparable string.
func (n *Normalizer) NormalizePair(name, firstName string) string {
	if strings.TrimSpace(firstName) == "" {
		return n.Normalize(name)
	}
	return n.Normalize(name + " " + firstName)
}
