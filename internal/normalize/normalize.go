// Package normalize cleans Japanese address fields before they are turned into geocoder queries.
//
// Pipeline order
//  1. NFKC + width folding: full-width digits, letters, punctuation and the ideographic space
//     become their ASCII forms; dash look-alikes between digits become "-".
//  2. Parenthetical asides are dropped.
//  3. Floor and room markers are dropped.
//  4. Building-name tokens are dropped.
//  5. An embedded postal code is dropped.
//  6. The prefecture name (Field only) and a leading country token are dropped.
//  7. Separators collapse to single spaces and the ends are trimmed.
//
// The pipeline is repeated until the output is stable, which makes Normalize idempotent.
package normalize

import (
	"regexp"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	dash        = regexp.MustCompile(`\s*[-－−‐‑–—―ーｰ]\s*`)
	parentheses = regexp.MustCompile(`\([^()]*\)|【[^【】]*】|「[^「」]*」`)
	floorMarker = regexp.MustCompile(`(?:地下|B)?\d+(?:F|階)`)
	roomMarker  = regexp.MustCompile(`\d+号室`)
	building    = regexp.MustCompile(
		`(^|[\s,]|\d)[^\s,\d]*(?:ビルディング|ビル|マンション|ハイツ|コーポ|アパート|タワー|プラザ|レジデンス|ハウス|ヒルズ)([\s,]|$)`,
	)
	postalCode = regexp.MustCompile(`(^|[^\d-])〒?\s*\d{3}-?\d{4}($|[^\d-])`)
	country    = regexp.MustCompile(`^(?:(?:日本国|日本|(?i:japan))(?:[\s,]+|$))+`)
	separators = regexp.MustCompile(`[\s,、]+`)
)

// Normalize cleans a single address string. It never fails; input that is all noise comes back empty.
func Normalize(s string) string {
	return Field(s, "")
}

// Field cleans s like Normalize and also removes every occurrence of prefecture.
func Field(s, prefecture string) string {
	prefecture = strings.TrimSpace(prefecture)

	// Once folded, a pass only removes or collapses text, so the loop reaches a fixed point.
	for {
		next := pass(s, prefecture)
		if next == s {
			return s
		}
		s = next
	}
}

func pass(s, prefecture string) string {
	if s == "" {
		return ""
	}

	s = fold(s)
	s = replaceUntilStable(parentheses, s, " ")
	s = roomMarker.ReplaceAllString(s, " ")
	s = floorMarker.ReplaceAllString(s, " ")
	s = replaceUntilStable(building, s, "${1} ${2}")
	s = replaceUntilStable(postalCode, s, "${1} ${2}")
	s = strings.ReplaceAll(s, "〒", " ")

	if prefecture != "" {
		s = strings.ReplaceAll(s, prefecture, " ")
	}
	s = stripCountry(s)

	s = separators.ReplaceAllString(s, " ")

	return strings.Trim(s, " -")
}

// fold maps compatibility and full-width forms to their canonical half-width equivalents.
func fold(s string) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)

	return unifyDashes(s)
}

// unifyDashes turns a dash look-alike with optional spacing into "-" when digits stand on both
// sides. The digits themselves are not consumed, so "1 - 2 - 3" folds in one scan.
func unifyDashes(s string) string {
	var (
		b    strings.Builder
		last int
	)

	for _, loc := range dash.FindAllStringIndex(s, -1) {
		if loc[0] == 0 || loc[1] == len(s) || !isDigit(s[loc[0]-1]) || !isDigit(s[loc[1]]) {
			continue
		}
		b.WriteString(s[last:loc[0]])
		b.WriteByte('-')
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// stripCountry drops a leading country token when it stands alone or is directly followed by a
// prefecture name, so that place names such as 日本橋 survive.
func stripCountry(s string) string {
	trimmed := strings.TrimSpace(s)
	if loc := country.FindStringIndex(trimmed); loc != nil {
		return trimmed[loc[1]:]
	}

	for _, token := range []string{"日本国", "日本"} {
		rest, ok := strings.CutPrefix(trimmed, token)
		if !ok {
			continue
		}
		for _, pref := range models.Prefectures {
			if strings.HasPrefix(rest, pref) {
				return rest
			}
		}
	}

	return s
}

// replaceUntilStable reapplies re because matches that share a boundary character, or that nest,
// are not found in a single non-overlapping scan. Every replacement is shorter than its match.
func replaceUntilStable(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}
