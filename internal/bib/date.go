package bib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// datePattern finds the year[-month[-day]] run of a date value, optionally
// wrapped in braces and followed by a range separator.
var datePattern = regexp.MustCompile(`\{?([0-9-]+)/?`)

var monthAbbrevs = map[string]uint64{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseYear extracts a year from a raw field value such as "{2019}" or
// "c. 1999". It returns 0 when there is no year.
func ParseYear(value string) uint64 {
	s := strings.TrimLeftFunc(onlyASCIIAlphaNumeric(value), isASCIILetter)
	return leadingUint(s)
}

// ParseMonth extracts a month number (1-12) from a numeric value or an
// English month name or abbreviation. Anything else yields 0.
func ParseMonth(value string) uint64 {
	m := onlyASCIIAlphaNumeric(value)
	if m == "" {
		return 0
	}
	if isASCIIDigit(rune(m[0])) {
		if n := leadingUint(m); n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	if len(m) < 3 {
		return 0
	}
	return monthAbbrevs[strings.ToLower(m[:3])]
}

// CompositeDate formats a year and optional month as a canonical date value.
func CompositeDate(year, month uint64) string {
	if month > 0 {
		return fmt.Sprintf("{%d-%d}", year, month)
	}
	return fmt.Sprintf("{%d}", year)
}

// DecomposeDate splits a date value such as "{2019-2}" or "2019-02-17/2020"
// into year and month. Missing parts are 0; ok is false when the value has
// no date-like run at all.
func DecomposeDate(value string) (year, month uint64, ok bool) {
	m := datePattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, false
	}
	parts := strings.SplitN(m[1], "-", 3)
	year = leadingUint(parts[0])
	if year > 0 && len(parts) > 1 {
		month = leadingUint(parts[1])
	}
	return year, month, true
}

// leadingUint parses the run of decimal digits at the start of s. Values
// that are absent or do not fit in a uint64 yield 0.
func leadingUint(s string) uint64 {
	end := 0
	for end < len(s) && isASCIIDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func onlyASCIIAlphaNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if isASCIILetter(ch) || isASCIIDigit(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func isASCIILetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isASCIIDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
