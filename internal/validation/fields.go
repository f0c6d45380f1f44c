package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/shopspring/decimal"
)

const (
	MinBells = 3
	MaxBells = 12
)

var (
	// A single digit hour, so 9:30 which should be 09:30. The digit guards
	// keep 12:30 and 1:234 from matching.
	badTimePattern = regexp2.MustCompile(`(?<!\d)\d:\d\d(?!\d)`, regexp2.None)

	weightPattern   = regexp.MustCompile(`^(?:\d+½? cwt|\d+(?:-\d+){2,3})$`)
	notePattern     = regexp.MustCompile(`^(?:[DGA][#b]?|[CF]#?|[EB]b?)$`)
	gridPattern     = regexp.MustCompile(`^(?:TL|TF)\d{6}$`)
	postcodePattern = regexp.MustCompile(`^\w\w\d+ \d\w\w$`)
)

// StringValidator checks one non-empty field value.
type StringValidator func(value string) error

// ValidateBells accepts a ringable bell count between MinBells and MaxBells.
func ValidateBells(bells int) error {
	if bells < MinBells || bells > MaxBells {
		return formatError(fmt.Sprintf("Number of bells must be between %d and %d", MinBells, MaxBells))
	}
	return nil
}

func ValidateTime(value string) error {
	if value == "" {
		return nil
	}
	if matches(badTimePattern, value) {
		return formatError("Time value missing leading '0'")
	}
	return nil
}

func ValidateWeight(value string) error {
	if value == "" || weightPattern.MatchString(value) {
		return nil
	}
	return formatError("Wrong format for weight (use '15-3-13' or '6 cwt')")
}

// ValidateNote accepts the notes bells are actually tuned to, so Cb and E#
// are rejected.
func ValidateNote(value string) error {
	if value == "" || notePattern.MatchString(value) {
		return nil
	}
	return formatError("Wrong format for note (use A-G optionally followed by # or b)")
}

func ValidateGrid(value string) error {
	if value == "" || gridPattern.MatchString(value) {
		return nil
	}
	return formatError("Wrong format for OS grid (use, e.g. TL123456)")
}

func ValidatePostcode(value string) error {
	if value == "" || postcodePattern.MatchString(value) {
		return nil
	}
	return formatError("Wrong format for Postcode")
}

func ValidateURL(value string) error {
	if value == "" {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return formatError("Enter a valid URL")
	}
	return nil
}

// MaxLength limits a value to n characters.
func MaxLength(n int) StringValidator {
	return func(value string) error {
		if count := utf8.RuneCountInString(value); count > n {
			err := formatError(fmt.Sprintf("Ensure this value has at most %d characters (it has %d)", n, count))
			err.TooLong = true
			return err
		}
		return nil
	}
}

// MaxDigits limits a decimal value to the given precision and scale.
func MaxDigits(precision, scale int) StringValidator {
	whole := precision - scale
	return func(value string) error {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return formatError("Enter a number")
		}
		if d.Abs().LessThan(decimal.New(1, int32(whole))) {
			return nil
		}
		overflow := formatError(fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point", whole))
		overflow.TooLong = true
		return overflow
	}
}

// Choice accepts only values the valid func knows about.
func Choice(valid func(string) bool) StringValidator {
	return func(value string) error {
		if value == "" || valid(value) {
			return nil
		}
		return formatError(fmt.Sprintf("Value %q is not a valid choice", value))
	}
}

func matches(re *regexp2.Regexp, value string) bool {
	ok, err := re.MatchString(value)
	return err == nil && ok
}
