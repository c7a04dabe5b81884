package book

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the DD.MM.YYYY layout used to parse and render birthdays.
const DateLayout = "02.01.2006"

const phoneDigits = 10

// Field holds one validated value. The value can only be set by the constructors of the
// concrete field types, so a Field that exists is always valid. Fields compare by value.
type Field[T comparable] struct {
	value T
}

// Value returns the stored value.
func (f Field[T]) Value() T {
	return f.value
}

func (f Field[T]) String() string {
	return fmt.Sprint(f.value)
}

// Name is a contact's display name.
type Name struct {
	Field[string]
}

// NewName trims raw and rejects blank names.
func NewName(raw string) (Name, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Name{}, fmt.Errorf("%w: name", ErrMissingArgument)
	}
	return Name{Field[string]{value: v}}, nil
}

// Phone is a phone number made of exactly ten ASCII digits.
type Phone struct {
	Field[string]
}

// ParsePhone validates raw (surrounding whitespace ignored) and returns the normalized number.
func ParsePhone(raw string) (Phone, error) {
	v := strings.TrimSpace(raw)
	if !isPhoneNumber(v) {
		return Phone{}, fmt.Errorf("%w: %q", ErrInvalidPhoneFormat, raw)
	}
	return Phone{Field[string]{value: v}}, nil
}

func isPhoneNumber(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Birthday is a calendar date without time component, stored at UTC midnight.
type Birthday struct {
	Field[time.Time]
}

// ParseBirthday parses raw in the DD.MM.YYYY layout. The date must exist in the
// Gregorian calendar (31.04.2000 and 29.02.2001 are rejected).
func ParseBirthday(raw string) (Birthday, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	return BirthdayOn(t), nil
}

// BirthdayOn builds a Birthday from the calendar day of t, dropping the time of day.
func BirthdayOn(t time.Time) Birthday {
	return Birthday{Field[time.Time]{value: dateOf(t)}}
}

// Date returns the birthday as a UTC midnight time.
func (b Birthday) Date() time.Time {
	return b.value
}

func (b Birthday) String() string {
	return b.value.Format(DateLayout)
}

// dateOf truncates t to its calendar day in UTC, keeping the local year/month/day of t.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
