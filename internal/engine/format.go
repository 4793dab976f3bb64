package engine

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned by ParseNumber for text FormatNumber could not
// have produced.
var ErrInvalidNumber = errors.New("invalid number")

var (
	// typed entry ("0.", "12.5") or a formatted result ("-1.5e-07", "+Inf")
	displayPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|-?[0-9]+(?:\.[0-9]+)?(?:e[+-][0-9]+)?|[+-]Inf|NaN)$`)
	numberPattern  = regexp.MustCompile(`^(?:-?[0-9]+(?:\.[0-9]+)?(?:e[+-][0-9]+)?|[+-]Inf|NaN)$`)
)

// FormatNumber renders a result the way the display shows it: Go's shortest
// representation, in plain decimal notation for magnitudes in [1e-6, 1e21)
// and exponent notation ("1e+21", "1e-07") outside that range. Non-finite
// values render as "+Inf", "-Inf" and "NaN".
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'g', -1, 64)
	case f == 0:
		// -0 displays as 0
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValidDisplay reports whether s is display text the calculator can reach:
// a typed number with at most one decimal point, or a formatted result.
func ValidDisplay(s string) bool {
	return displayPattern.MatchString(s)
}

// ParseNumber parses text in FormatNumber's output form.
func ParseNumber(s string) (float64, error) {
	if !numberPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	f, ok := parseFloat(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return f, nil
}

// ParseDisplay reads a number from display text. Text with trailing garbage
// (for example "+Inf5") yields the value of its longest numeric prefix;
// text with no numeric prefix yields NaN.
func ParseDisplay(s string) float64 {
	prefix := numericPrefix(s)
	if prefix == "" {
		return math.NaN()
	}
	if f, ok := parseFloat(prefix); ok {
		return f
	}
	return math.NaN()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// numericPrefix returns the longest leading part of s that reads as a
// decimal float, an infinity or NaN. It scans s once.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	rest := s[i:]
	for _, word := range []string{"infinity", "inf"} {
		if len(rest) >= len(word) && strings.EqualFold(rest[:len(word)], word) {
			return s[:i+len(word)]
		}
	}
	if i == 0 && len(rest) >= 3 && strings.EqualFold(rest[:3], "nan") {
		return s[:3]
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return f, true
	}
	// out of range still carries ±Inf or ±0
	if errors.Is(err, strconv.ErrRange) {
		return f, true
	}
	return 0, false
}
