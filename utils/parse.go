package utils

import (
	"strconv"
	"strings"

	"agroverse/errx"
)

// ParsePositiveInt reads a form field that must be a whole number above zero.
// message is what the user sees when it is not.
func ParsePositiveInt(s, message string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, errx.Invalid(message)
	}
	return n, nil
}

// ParseCoordinate reads a latitude or longitude within limit degrees.
func ParseCoordinate(s string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

// Blank reports whether any of the values is empty after trimming.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
