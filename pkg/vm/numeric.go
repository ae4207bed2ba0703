package vm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Literal parsing is prefix based: the longest numeric prefix is used and
// trailing text is ignored, so "12abc" reads as 12 and "abc" as 0.

var (
	floatPrefix   = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	specialPrefix = regexp.MustCompile(`(?i)^([+-]?)(inf(?:inity)?|nan)`)
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
)

// isNumericLiteral reports whether a token is read as a number instead of
// a variable name: it starts with a digit, or with '-' followed by a digit.
func isNumericLiteral(token string) bool {
	if token == "" {
		return false
	}
	if isDigit(token[0]) {
		return true
	}
	return len(token) > 1 && token[0] == '-' && isDigit(token[1])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseFloatPrefix parses the leading decimal number of s.
func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	if m := floatPrefix.FindString(s); m != "" {
		// Out of range literals come back as ±Inf or ±0 alongside ErrRange.
		f, _ := strconv.ParseFloat(m, 64)
		return f
	}
	if m := specialPrefix.FindStringSubmatch(s); m != nil {
		var f float64
		if strings.EqualFold(m[2], "nan") {
			f = math.NaN()
		} else {
			f = math.Inf(1)
		}
		if m[1] == "-" {
			f = -f
		}
		return f
	}
	return 0
}

// parseIntPrefix parses the leading base-10 integer of s, saturating at the
// int64 limits.
func parseIntPrefix(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	m := intPrefix.FindString(s)
	if m == "" {
		return 0
	}
	i, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		if strings.HasPrefix(m, "-") {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return i
}

// truncToInt converts f to an int64 by truncation toward zero, saturating
// out of range values and mapping NaN to 0.
func truncToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
