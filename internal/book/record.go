package book

import (
	"fmt"
	"slices"
	"strings"
)

// EditOutcome describes what Record.EditPhone did.
type EditOutcome int

const (
	EditUpdated   EditOutcome = iota // phone replaced in place
	EditUnchanged                    // old and new values are identical
	EditNotFound                     // old value is not on the record
	EditInvalid                      // new value is not a valid phone
)

func (o EditOutcome) String() string {
	switch o {
	case EditUpdated:
		return "updated"
	case EditUnchanged:
		return "unchanged"
	case EditNotFound:
		return "not found"
	case EditInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("EditOutcome(%d)", int(o))
	}
}

// Record is one contact: an immutable name, an ordered set of phones and an optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates an empty record for name.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact name, which is also its directory key.
func (r *Record) Name() string {
	return r.name.Value()
}

// Phones returns a copy of the phones in insertion order.
func (r *Record) Phones() []Phone {
	return slices.Clone(r.phones)
}

// PhoneValues returns the phone numbers as plain strings.
func (r *Record) PhoneValues() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.Value()
	}
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it unless the record already has that number.
// It reports whether the list changed. On a validation error the record is untouched.
func (r *Record) AddPhone(raw string) (bool, error) {
	p, err := ParsePhone(raw)
	if err != nil {
		return false, err
	}
	if r.indexOf(p.Value()) >= 0 {
		return false, nil
	}
	r.phones = append(r.phones, p)
	return true, nil
}

// AddBirthday validates raw and replaces the current birthday. On a validation error
// the previous birthday (or its absence) is kept.
func (r *Record) AddBirthday(raw string) error {
	b, err := ParseBirthday(raw)
	if err != nil {
		return err
	}
	r.SetBirthday(b)
	return nil
}

// SetBirthday replaces the birthday with an already validated value.
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = &b
}

// RemovePhone deletes the phone equal to value. Missing values are ignored; the result
// reports whether something was removed.
func (r *Record) RemovePhone(value string) bool {
	i := r.indexOf(strings.TrimSpace(value))
	if i < 0 {
		return false
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return true
}

// EditPhone replaces oldValue with newValue, keeping its position in the list.
// EditNotFound comes with an ErrNotFound error and EditInvalid with ErrInvalidPhoneFormat;
// in both cases and for EditUnchanged the record is not modified.
func (r *Record) EditPhone(oldValue, newValue string) (EditOutcome, error) {
	oldValue = strings.TrimSpace(oldValue)
	i := r.indexOf(oldValue)
	if i < 0 {
		return EditNotFound, fmt.Errorf("%w: phone %q", ErrNotFound, oldValue)
	}
	if oldValue == strings.TrimSpace(newValue) {
		return EditUnchanged, nil
	}
	p, err := ParsePhone(newValue)
	if err != nil {
		return EditInvalid, err
	}
	if r.indexOf(p.Value()) >= 0 {
		// The new number is already on the record: drop the old entry instead of duplicating.
		r.phones = slices.Delete(r.phones, i, i+1)
		return EditUpdated, nil
	}
	r.phones[i] = p
	return EditUpdated, nil
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (Phone, error) {
	i := r.indexOf(strings.TrimSpace(value))
	if i < 0 {
		return Phone{}, fmt.Errorf("%w: phone %q", ErrNotFound, value)
	}
	return r.phones[i], nil
}

func (r *Record) indexOf(value string) int {
	return slices.IndexFunc(r.phones, func(p Phone) bool { return p.Value() == value })
}

func (r *Record) String() string {
	phones := "Empty list"
	if len(r.phones) > 0 {
		quoted := make([]string, len(r.phones))
		for i, p := range r.phones {
			quoted[i] = "'" + p.Value() + "'"
		}
		phones = "[" + strings.Join(quoted, ", ") + "]"
	}
	birthday := "Not set"
	if r.birthday != nil {
		birthday = r.birthday.String()
	}
	return fmt.Sprintf("Contact: %s, Phones: %s, Birthday: %s", r.name.Value(), phones, birthday)
}
