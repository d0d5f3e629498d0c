package csvcodec

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/okian/skillcards/internal/domain/model"
)

// parseDecimal reads a spreadsheet number that may use a decimal comma,
// rounds half up and clamps to [lo, hi]. Anything without a leading number
// yields def.
func parseDecimal(s string, lo, hi, def int) int {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	f, ok := leadingFloat(s)
	if !ok {
		return def
	}
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int(math.Floor(f + 0.5))
}

// parseSmallInt reads the leading base-10 integer of s and clamps it.
func parseSmallInt(s string, lo, hi, def int) int {
	n, ok := leadingInt(strings.TrimSpace(s))
	if !ok {
		return def
	}
	if n < int64(lo) {
		return lo
	}
	if n > int64(hi) {
		return hi
	}
	return int(n)
}

func parseValue(s string) int {
	return parseDecimal(s, model.MinValue, model.MaxValue, model.DefaultValue)
}

func parseWeight(s string) int {
	return parseSmallInt(s, model.MinWeight, model.MaxWeight, model.DefaultWeight)
}

// leadingFloat parses the longest [sign]digits[.digits][e[sign]digits] prefix
// of s. Out-of-range exponents give ±Inf, which callers clamp.
func leadingFloat(s string) (float64, bool) {
	end := signLen(s)
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	// An exponent only counts when digits follow it.
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1 + signLen(s[end+1:])
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// leadingInt parses the longest [sign]digits prefix of s. Overlong digit
// runs saturate instead of failing.
func leadingInt(s string) (int64, bool) {
	end := signLen(s)
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == signLen(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return n, true
}

func signLen(s string) int {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return 1
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
