package fuzzywuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Casing selects the case transform applied during normalization.
type Casing string

const (
	// CasingIgnore leaves letter case untouched.
	CasingIgnore Casing = "ignore"
	// CasingLower folds text to lower case.
	CasingLower Casing = "lower"
	// CasingUpper folds text to upper case.
	CasingUpper Casing = "upper"
)

// Normalizer canonicalizes sentence text. The same normalizer must be used
// when building the candidate table and when scoring queries against it;
// diverging normalization silently degrades match quality instead of
// erroring, so the Signature is persisted with trained tables and compared
// on load.
type Normalizer struct {
	Casing    Casing
	KeepPunct bool
}

// NewNormalizer returns the default normalizer: NFKC, lower case,
// punctuation stripped.
func NewNormalizer() *Normalizer {
	return &Normalizer{Casing: CasingLower}
}

// Normalize applies Unicode NFKC normalization, the configured case
// transform, punctuation removal and whitespace collapsing.
func (n *Normalizer) Normalize(s string) string {
	s = norm.NFKC.String(s)
	if !n.KeepPunct {
		s = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
				return r
			}
			return ' '
		}, s)
	}
	switch n.Casing {
	case CasingLower:
		s = strings.ToLower(s)
	case CasingUpper:
		s = strings.ToUpper(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeAll normalizes a slice of strings.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Normalize(t)
	}
	return out
}

// Signature identifies the normalization configuration so training and query
// time can be checked for agreement.
func (n *Normalizer) Signature() string {
	parts := []string{"nfkc", string(n.Casing)}
	if n.KeepPunct {
		parts = append(parts, "keep-punct")
	} else {
		parts = append(parts, "strip-punct")
	}
	return strings.Join(parts, "|")
}
