package query

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	firstBlock   = regexp.MustCompile(`(\d+)-(\d+)`)
	kanjiChome   = regexp.MustCompile(`([一二三四五六七八九十]+)丁目`)
	blockUnit    = regexp.MustCompile(`(\d+)\s*(?:丁目|番地|番)`)
	lotSuffix    = regexp.MustCompile(`(\d+)\s*号`)
	dashRun      = regexp.MustCompile(`-{2,}`)
	dashSpace    = regexp.MustCompile(`-\s+(\d)`)
	danglingDash = regexp.MustCompile(`(\d)-(\s|$)`)
	coreNumber   = regexp.MustCompile(`\d+(?:-\d+){0,2}`)
)

// toChome rewrites the first "D-D" pair to "D丁目D": "1-6-3" becomes "1丁目6-3".
// Streets that already carry a chome marker are returned as is.
func toChome(street string) string {
	if strings.Contains(street, "丁目") {
		return street
	}

	loc := firstBlock.FindStringSubmatchIndex(street)
	if loc == nil {
		return street
	}

	return street[:loc[0]] + street[loc[2]:loc[3]] + "丁目" + street[loc[4]:]
}

// toHyphen rewrites chome/banchi/ban/go notation to hyphens: "1丁目6番3号" becomes "1-6-3".
func toHyphen(street string) string {
	street = kanjiChome.ReplaceAllStringFunc(street, func(m string) string {
		n := kanjiToInt(strings.TrimSuffix(m, "丁目"))
		if n == 0 {
			return m
		}
		return strconv.Itoa(n) + "丁目"
	})
	street = blockUnit.ReplaceAllString(street, "${1}-")
	street = lotSuffix.ReplaceAllString(street, "${1}")
	street = dashSpace.ReplaceAllString(street, "-${1}")
	street = dashRun.ReplaceAllString(street, "-")
	street = danglingDash.ReplaceAllString(street, "${1}${2}")

	return strings.TrimSpace(street)
}

// splitCore extracts the block-lot-sublot number and returns it with the leftover text.
func splitCore(street string) (string, string) {
	loc := coreNumber.FindStringIndex(street)
	if loc == nil {
		return "", street
	}

	rest := strings.Fields(street[:loc[0]] + " " + street[loc[1]:])

	return street[loc[0]:loc[1]], strings.Join(rest, " ")
}

// kanjiToInt parses kanji numerals up to 99. It returns 0 for anything it does not understand.
func kanjiToInt(s string) int {
	digits := map[rune]int{'一': 1, '二': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9}

	const ten = 10
	total, current := 0, 0
	for _, r := range s {
		switch {
		case r == '十':
			if current == 0 {
				current = 1
			}
			total += current * ten
			current = 0
		case digits[r] > 0:
			current = digits[r]
		default:
			return 0
		}
	}

	return total + current
}
