// Package cedula validates 10-digit national identity numbers (cédulas).
//
// An identifier carries a two-digit region code, seven body digits and a trailing
// check digit computed with a modulus-10 weighted-digit scheme.
package cedula

import "strings"

// Length is the number of digits in a well-formed identifier.
const Length = 10

// Region code bounds (inclusive).
const (
	MinRegion = 1
	MaxRegion = 24
)

// Reason explains why an identifier was accepted or rejected.
type Reason string

// Verdict reasons, in the order the rules are checked.
const (
	ReasonOK       Reason = "ok"
	ReasonLength   Reason = "length"
	ReasonRepeated Reason = "repeated_digits"
	ReasonNonDigit Reason = "non_digit"
	ReasonRegion   Reason = "region"
	ReasonChecksum Reason = "checksum"
)

// Validate reports whether identifier is a valid cédula.
// PRE: none (any string is accepted)
// POST: Returns true only if every rule and the check digit pass
// INVARIANT: No side effects; safe for concurrent use
func Validate(identifier string) bool {
	return Check(identifier) == ReasonOK
}

// Check applies the validation rules in order and returns the first failing reason,
// or ReasonOK.
// PRE: none
// POST: Returns exactly one Reason
func Check(identifier string) Reason {
	if len(identifier) != Length {
		return ReasonLength
	}
	if allSame(identifier) {
		return ReasonRepeated
	}

	var digits [Length]int
	for i := 0; i < Length; i++ {
		c := identifier[i]
		if c < '0' || c > '9' {
			return ReasonNonDigit
		}
		digits[i] = int(c - '0')
	}

	region := digits[0]*10 + digits[1]
	if region < MinRegion || region > MaxRegion {
		return ReasonRegion
	}

	if expectedCheckDigit(digits) != digits[9] {
		return ReasonChecksum
	}
	return ReasonOK
}

// expectedCheckDigit derives the check digit from positions 0..8.
func expectedCheckDigit(digits [Length]int) int {
	doubled, plain := 0, 0
	for i := 0; i < Length-1; i++ {
		d := digits[i]
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
			doubled += d
		} else {
			plain += d
		}
	}
	total := doubled + plain

	nextTen := (leadingDigit(total) + 1) * 10
	expected := nextTen - total
	if expected == 10 {
		expected = 0
	}
	// Must run after the general formula; it has the final say.
	if total%10 == 0 {
		expected = 0
	}
	return expected
}

// leadingDigit returns the most significant decimal digit of n (n >= 0).
// A one-digit total is its own leading digit.
func leadingDigit(n int) int {
	for n >= 10 {
		n /= 10
	}
	return n
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// Sanitize strips every non-digit character from raw input.
// PRE: none
// POST: Returned string contains only '0'..'9'
func Sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}
