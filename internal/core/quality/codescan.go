package quality

import (
	"regexp"
	"strings"
)

// The engine treats generated source as opaque text (it never parses
// Solidity), so code quality is a structural scan: declarations present,
// delimiters balanced, identifiers well-formed and keyword-safe.

var (
	pragmaRe   = regexp.MustCompile(`(?m)^\s*pragma\s+solidity\b`)
	contractRe = regexp.MustCompile(`(?m)\bcontract\s+[A-Za-z_][A-Za-z0-9_]*\s*\{`)
	declRe     = regexp.MustCompile(`\b(?:function|event|modifier|struct)\s+([A-Za-z0-9_$]+)`)
	varDeclRe  = regexp.MustCompile(`\b(?:address(?:\s+payable)?|uint\d*|int\d*|bool|string|bytes\d*)\s+(?:public\s+|private\s+|internal\s+|memory\s+|storage\s+)*([A-Za-z0-9_$]+)`)
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

var solidityReserved = map[string]bool{
	"address": true, "bool": true, "break": true, "contract": true,
	"continue": true, "delete": true, "else": true, "emit": true,
	"enum": true, "event": true, "for": true, "function": true, "if": true,
	"import": true, "mapping": true, "modifier": true, "new": true,
	"payable": true, "pragma": true, "public": true, "private": true,
	"require": true, "return": true, "returns": true, "revert": true,
	"string": true, "struct": true, "this": true, "uint": true,
	"uint256": true, "while": true,
}

// ScanCode scores generated contract text in [0,1]. Empty input scores 0.
func ScanCode(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	var score float64

	if balanced(text, '{', '}') && balanced(text, '(', ')') {
		score += 0.35
	}
	if pragmaRe.MatchString(text) {
		score += 0.15
	}
	if contractRe.MatchString(text) {
		score += 0.20
	}
	if ok, any := declaredIdentifiersValid(text); any && ok {
		score += 0.30
	} else if !any {
		// A contract with no declarations at all is syntactically fine but
		// implements nothing; grant half credit.
		score += 0.15
	}

	return score
}

func balanced(text string, open, close rune) bool {
	depth := 0
	for _, r := range text {
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// declaredIdentifiersValid checks every declared name: well-formed and not
// a reserved keyword. Returns (allValid, anyDeclarationFound).
func declaredIdentifiersValid(text string) (bool, bool) {
	any := false
	for _, re := range []*regexp.Regexp{declRe, varDeclRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			any = true
			name := m[1]
			if !identRe.MatchString(name) || solidityReserved[strings.ToLower(name)] {
				return false, true
			}
		}
	}
	return true, any
}
