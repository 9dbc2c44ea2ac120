// Package dob pulls a date of birth out of free-form OCR text.
package dob

import (
	"regexp"
	"strconv"
)

// NotFound is returned by Extract when no date pattern matches.
const NotFound = "Not found"

// One expression, three alternatives; the leftmost match in the text wins.
//  1. labelled dd/mm/yyyy
//  2. yyyy/mm/dd
//  3. d/m/yy
var pattern = regexp.MustCompile(`(?i)(?:Date of Birth|DOB|DOB:|Date of birth|Date of Birth:)\s*(\d{2})[/-](\d{2})[/-](\d{4})|(\d{4})[/-](\d{2})[/-](\d{2})|(\d{1,2})[/-](\d{1,2})[/-](\d{2})`)

// Extract returns the first date found in text normalised to slash form,
// or NotFound.
//
// A yyyy/mm/dd match is rendered month/day/year, so "1998-08-05" becomes
// "08/05/1998". Two-digit years below 50 are read as 20yy, others as 19yy.
func Extract(text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return NotFound
	}
	switch {
	case m[1] != "" && m[2] != "" && m[3] != "":
		return m[1] + "/" + m[2] + "/" + m[3]
	case m[4] != "" && m[5] != "" && m[6] != "":
		return m[5] + "/" + m[6] + "/" + m[4]
	case m[7] != "" && m[8] != "" && m[9] != "":
		return m[7] + "/" + m[8] + "/" + expandYear(m[9])
	}
	return NotFound
}

// Matches reports whether the date extracted from text equals reference exactly.
// A NotFound extraction never matches.
func Matches(text, reference string) bool {
	got := Extract(text)
	return got != NotFound && got == reference
}

func expandYear(yy string) string {
	n, err := strconv.Atoi(yy)
	if err != nil {
		return "19" + yy
	}
	if n < 50 {
		return "20" + yy
	}
	return "19" + yy
}
