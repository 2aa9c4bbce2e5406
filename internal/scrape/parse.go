package scrape

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var months = map[string]string{
	"January":   "01",
	"February":  "02",
	"March":     "03",
	"April":     "04",
	"May":       "05",
	"June":      "06",
	"July":      "07",
	"August":    "08",
	"September": "09",
	"October":   "10",
	"November":  "11",
	"December":  "12",
}

// ParseRuntime converts an "Xh Ymin" duration into minutes. Either
// component may be absent: "2h 31min" -> 151, "1h" -> 60, "45min" -> 45.
func ParseRuntime(text string) int {
	total := 0
	for _, tok := range strings.Split(text, " ") {
		switch {
		case strings.Contains(tok, "h"):
			total += 60 * leadingInt(tok)
		case strings.Contains(tok, "min"):
			total += leadingInt(tok)
		}
	}
	return total
}

func leadingInt(tok string) int {
	end := 0
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(tok[:end])
	return n
}

// ParseReleaseDate converts a textual date into a zero-padded,
// most-significant-first string so lexical range comparisons work:
//
//	"21 July 1994" -> "1994-07-21"
//	"July 1994"    -> "1994-07"
//	"1994"         -> "1994"
//
// Precision varies because the source format itself varies.
func ParseReleaseDate(text string) (string, error) {
	tokens := strings.Split(text, " ")

	switch len(tokens) {
	case 1:
		if _, err := strconv.Atoi(tokens[0]); err != nil {
			return "", errors.Errorf("unparseable release date %q", text)
		}
		return tokens[0], nil

	case 2:
		month, ok := months[tokens[0]]
		if !ok {
			return "", errors.Errorf("unknown month in release date %q", text)
		}
		return tokens[1] + "-" + month, nil

	default:
		day := tokens[0]
		month, ok := months[tokens[1]]
		if !ok {
			return "", errors.Errorf("unknown month in release date %q", text)
		}
		if len(day) < 2 {
			day = "0" + day
		}
		return tokens[len(tokens)-1] + "-" + month + "-" + day, nil
	}
}
