// Package cpf validates Brazilian CPF national identifiers.
//
// A CPF is 11 digits; the last two are check digits computed from the
// preceding digits with a weighted-sum-mod-11 scheme. Formatting characters
// (dots, dashes, spaces) are insignificant and stripped before validation.
//
// This package contains only pure functions with no I/O and no time.Now()
// calls, which keeps it suitable for exhaustive property testing.
package cpf

import "strings"

// Length is the digit count of a normalized CPF.
const Length = 11

// Normalize strips non-digit characters from raw and validates the result.
// It returns the 11-digit canonical form and whether it passes the checksum.
// The returned string is empty when the input cannot be reduced to 11 digits.
func Normalize(raw string) (string, bool) {
	digits := stripNonDigits(raw)
	if len(digits) != Length {
		return "", false
	}
	return digits, valid(digits)
}

// Valid reports whether raw is a well-formed CPF after normalization.
func Valid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(Length)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// valid checks both check digits of an 11-digit string.
//
// For check digit j (0-indexed positions 9 and 10): sum the first j digits
// weighted (j+1-i) for digit i, take rest = (sum*10) mod 11, fold 10 to 0,
// and compare against digit j. Sequences of a single repeated digit satisfy
// the arithmetic but are known-invalid and rejected up front.
func valid(digits string) bool {
	if allIdentical(digits) {
		return false
	}
	for j := 9; j < 11; j++ {
		sum := 0
		for i := 0; i < j; i++ {
			sum += int(digits[i]-'0') * (j + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		if int(digits[j]-'0') != rest {
			return false
		}
	}
	return true
}

func allIdentical(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
