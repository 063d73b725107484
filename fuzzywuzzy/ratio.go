package fuzzywuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// ScorerFunc computes a similarity score between a query and a candidate
// sentence on a 0-100 scale. 100 means the strings are identical.
type ScorerFunc func(query, candidate string) int

// Ratio is the plain whole-string similarity: normalized Levenshtein
// distance scaled to 0-100. Identical strings score 100; strings with no
// characters in common score 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(math.Round(float64(sim) * 100))
}

// PartialRatio scores the shorter string against every same-length window of
// the longer string and returns the best ratio. It handles queries that
// truncate a candidate or carry extra trailing words.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return Ratio(a, b)
	}
	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}
	best := 0
	target := string(shorter)
	for i := 0; i+len(shorter) <= len(longer); i++ {
		score := Ratio(target, string(longer[i:i+len(shorter)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio sorts the words of both strings before scoring, making the
// comparison insensitive to word order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the sorted token intersection of both strings
// against each side's full sorted token list and returns the best ratio.
// Shared words dominate the score even when one side has many extras.
func TokenSetRatio(a, b string) int {
	return tokenSetRatio(a, b, false)
}

// WRatio is the weighted composite scorer: the maximum of the plain ratio
// and discounted token-sort/token-set scores, switching to the partial
// variants when the strings differ substantially in length. It mirrors the
// weighted-ratio behavior the recognizer's recall expectations are built on
// and is the default scorer.
func WRatio(a, b string) int {
	base := float64(Ratio(a, b))

	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 || lb == 0 {
		return int(base)
	}
	longer, shorter := la, lb
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	lenRatio := float64(longer) / float64(shorter)

	const unbaseScale = 0.95
	if lenRatio < 1.5 {
		tsor := float64(TokenSortRatio(a, b)) * unbaseScale
		tser := float64(tokenSetRatio(a, b, false)) * unbaseScale
		return int(math.Round(math.Max(base, math.Max(tsor, tser))))
	}

	partialScale := 0.90
	if lenRatio > 8 {
		partialScale = 0.60
	}
	partial := float64(PartialRatio(a, b)) * partialScale
	ptsor := float64(partialTokenSortRatio(a, b)) * unbaseScale * partialScale
	ptser := float64(tokenSetRatio(a, b, true)) * unbaseScale * partialScale
	best := math.Max(base, math.Max(partial, math.Max(ptsor, ptser)))
	return int(math.Round(best))
}

// ScorerByName resolves a configured scorer name, defaulting to WRatio.
func ScorerByName(name string) ScorerFunc {
	switch name {
	case "ratio":
		return Ratio
	case "partial":
		return PartialRatio
	case "token-sort":
		return TokenSortRatio
	case "token-set":
		return TokenSetRatio
	default:
		return WRatio
	}
}

func partialTokenSortRatio(a, b string) int {
	return PartialRatio(sortTokens(a), sortTokens(b))
}

func tokenSetRatio(a, b string, partial bool) int {
	score := Ratio
	if partial {
		score = PartialRatio
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var inter, diffA, diffB []string
	for tok := range setA {
		if setB[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(diffA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(diffB, " "))

	best := score(t0, t1)
	if s := score(t0, t2); s > best {
		best = s
	}
	if s := score(t1, t2); s > best {
		best = s
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
