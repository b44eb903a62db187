// Package match reconciles free-text worklist extractions against the
// reference procedure catalog. Matching is a single-pass heuristic over
// normalized token sets; it is best-effort, not a classifier.
package match

import (
	"strings"
	"unicode"
)

// abbreviations maps shorthand seen on worklists to the canonical token used
// in catalog names. Keys are lowercase; values never appear as keys, which
// keeps normalization idempotent.
var abbreviations = map[string]string{
	"w":     "with",
	"wo":    "without",
	"w/o":   "without",
	"c":     "cervical",
	"l":     "lumbar",
	"t":     "thoracic",
	"lt":    "left",
	"rt":    "right",
	"bilat": "bilateral",
	"bl":    "bilateral",
	"abd":   "abdomen",
	"abdo":  "abdomen",
	"pelv":  "pelvis",
	"mr":    "mri",
	"us":    "ultrasound",
	"u/s":   "ultrasound",
	"sono":  "ultrasound",
	"xr":    "xray",
	"x-ray": "xray",
	"angio": "angiography",
	"mammo": "mammogram",
	"mamm":  "mammogram",
	"brain": "head",
	"ext":   "extremity",
	"vw":    "views",
	"vws":   "views",
}

// stopwords are dropped entirely: laterality and filler words carry no
// matching signal against catalog names.
var stopwords = map[string]bool{
	"left":      true,
	"right":     true,
	"bilateral": true,
	"the":       true,
	"and":       true,
	"of":        true,
	"a":         true,
	"an":        true,
	"for":       true,
	"to":        true,
	"in":        true,
	"or":        true,
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalize lowercases a raw whitespace-delimited token, strips edge
// punctuation, expands abbreviations, and splits any remaining interior
// punctuation (e.g. "non-contrast" -> "non", "contrast"). Abbreviation lookup
// runs before the interior split so slash forms like "w/o" resolve whole.
func normalize(raw string) []string {
	tok := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool { return !isAlnum(r) }))
	if tok == "" {
		return nil
	}
	if exp, ok := abbreviations[tok]; ok {
		return []string{exp}
	}
	if strings.IndexFunc(tok, func(r rune) bool { return !isAlnum(r) }) < 0 {
		return []string{tok}
	}

	parts := strings.FieldsFunc(tok, func(r rune) bool { return !isAlnum(r) })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if exp, ok := abbreviations[p]; ok {
			p = exp
		}
		out = append(out, p)
	}
	return out
}

// Tokenize returns the ordered, de-duplicated significant tokens of s.
func Tokenize(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.Fields(s) {
		for _, tok := range normalize(raw) {
			if tok == "" || stopwords[tok] || seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// TokenSet returns the significant tokens of s as a set.
func TokenSet(s string) map[string]struct{} {
	toks := Tokenize(s)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// Strip reduces s to its lowercase alphanumeric characters. Used for the
// exact-match fallback when token scoring fails.
func Strip(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if isAlnum(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
