package hypixel

import (
	"math"
	"strconv"
	"strings"
)

// WithCommas formats an integer with thousands separators
func WithCommas(value int64) string {
	digits := strconv.FormatInt(value, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	return sign + groupThousands(digits)
}

// WithCommasFloat formats a number with thousands separators on the integer part,
// keeping the shortest decimal representation of the fraction
func WithCommasFloat(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign, formatted = "-", formatted[1:]
	}
	whole, fraction, hasFraction := strings.Cut(formatted, ".")
	if !hasFraction {
		return sign + groupThousands(whole)
	}
	return sign + groupThousands(whole) + "." + fraction
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var result strings.Builder
	for i, digit := range digits {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// PadDecimalPlaces makes sure a formatted number has at least two decimal places
func PadDecimalPlaces(formatted string) string {
	_, fraction, ok := strings.Cut(formatted, ".")
	if !ok {
		return formatted + ".00"
	}
	if len(fraction) == 1 {
		return formatted + "0"
	}
	return formatted
}

// PadOneDecimalPlace makes sure a formatted number has at least one decimal place
func PadOneDecimalPlace(formatted string) string {
	if !strings.Contains(formatted, ".") {
		return formatted + ".0"
	}
	return formatted
}

// TruncateDecimals rounds toward zero at the given number of decimal places
func TruncateDecimals(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Trunc(value*scale) / scale
}

// RoundDecimals rounds half away from zero at the given number of decimal places
func RoundDecimals(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

// CeilDecimals rounds toward positive infinity at the given number of decimal places
func CeilDecimals(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Ceil(value*scale) / scale
}

// FormatLevel renders a fractional level the way leaderboards display it, e.g. "1,204.57"
func FormatLevel(level float64) string {
	return PadDecimalPlaces(WithCommasFloat(TruncateDecimals(level, 2)))
}

// IsValidUsername reports whether name could be a Minecraft username
func IsValidUsername(name string) bool {
	if len(name) == 0 || len(name) > 16 {
		return false
	}
	for _, c := range name {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !isDigit && c != '_' {
			return false
		}
	}
	return true
}
