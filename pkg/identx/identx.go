// Package identx validates South African identifiers: national ID numbers,
// vehicle registrations and municipal notice numbers.
//
// The Validate* functions are pure predicates. The Check* functions return a
// FieldError carrying the inline message shown next to the offending input,
// and the Clean* functions normalise raw keyboard input before it is checked.
package identx

import (
	"regexp"
	"strings"
)

// NationalIDLength is the fixed length of a South African ID number.
const NationalIDLength = 13

var (
	registrationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z]{2,3}\d{3,4}[A-Z]{2}$`), // CAW123GP, CA1234GP
		regexp.MustCompile(`^[A-Z]{2}\d{4,6}$`),           // CA123456
		regexp.MustCompile(`^[A-Z]{3}\d{3}[A-Z]{2}$`),     // NTY123EC
	}

	noticePrefix   = regexp.MustCompile(`^[A-Z]{2,3}\d{4,}`)
	nonAlphaNumRun = regexp.MustCompile(`[^A-Z0-9]`)
)

// ValidateNationalID reports whether value is a 13 digit ID number whose last
// digit matches the checksum of the first twelve.
func ValidateNationalID(value string) bool {
	if len(value) != NationalIDLength || !allDigits(value) {
		return false
	}

	sum := 0
	for i := range NationalIDLength - 1 {
		d := int(value[i] - '0')
		if i%2 == 0 {
			sum += d
			continue
		}
		doubled := d * 2
		if doubled > 9 {
			doubled -= 9
		}
		sum += doubled
	}

	check := int(value[NationalIDLength-1] - '0')
	return (10-(sum%10))%10 == check
}

// ValidateVehicleRegistration reports whether value, uppercased, matches one
// of the accepted South African registration shapes.
func ValidateVehicleRegistration(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range registrationPatterns {
		if p.MatchString(upper) {
			return true
		}
	}
	return false
}

// ValidateNoticeNumber reports whether value looks like a municipal notice
// number: at least 8 characters starting with 2-3 letters and 4+ digits.
func ValidateNoticeNumber(value string) bool {
	if len(value) < 8 {
		return false
	}
	return noticePrefix.MatchString(strings.ToUpper(value))
}

// CleanNationalID drops every non-digit character.
func CleanNationalID(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// CleanNoticeNumber uppercases value and strips everything but A-Z and 0-9.
func CleanNoticeNumber(value string) string {
	return nonAlphaNumRun.ReplaceAllString(strings.ToUpper(value), "")
}

// CleanVehicleRegistration uppercases value and strips spaces and dashes,
// so "ca 123-456" becomes "CA123456".
func CleanVehicleRegistration(value string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return r.Replace(strings.ToUpper(strings.TrimSpace(value)))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
