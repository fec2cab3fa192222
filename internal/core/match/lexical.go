package match

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

var stopTokens = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "with": true, "by": true, "per": true,
}

// NormalizeLabel lowercases a label, splits camelCase and snake_case into
// words and strips punctuation, so "monthlyRent" and "$1500/month" become
// comparable token streams.
func NormalizeLabel(label string) string {
	var b strings.Builder
	runes := []rune(label)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized, stopword-free tokens of a label.
func Tokens(label string) []string {
	var out []string
	for _, tok := range strings.Fields(NormalizeLabel(label)) {
		if !stopTokens[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// LexicalSimilarity scores two labels in [0,1] by the better of weighted
// token overlap and edit-distance ratio over the normalized forms. Token
// pairs count fully on equality and partially on a shared 4-char root or
// containment, which lets "monthlyRent" meet "$1500/month" on "month".
func LexicalSimilarity(a, b string) float64 {
	na, nb := NormalizeLabel(a), NormalizeLabel(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	overlap := tokenOverlap(Tokens(a), Tokens(b))

	dist := levenshtein.ComputeDistance(na, nb)
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	editRatio := 1 - float64(dist)/float64(longest)

	if overlap > editRatio {
		return overlap
	}
	return editRatio
}

func tokenOverlap(ta, tb []string) float64 {
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	var weight float64
	for _, x := range ta {
		best := 0.0
		for _, y := range tb {
			switch {
			case x == y:
				best = 1.0
			case best < 0.75 && sharedRoot(x, y):
				best = 0.75
			case best < 0.5 && contained(x, y):
				best = 0.5
			}
			if best == 1.0 {
				break
			}
		}
		weight += best
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return weight / float64(denom)
}

func sharedRoot(x, y string) bool {
	return len(x) >= 4 && len(y) >= 4 && x[:4] == y[:4]
}

func contained(x, y string) bool {
	if len(x) < 3 || len(y) < 3 {
		return false
	}
	return strings.Contains(x, y) || strings.Contains(y, x)
}
