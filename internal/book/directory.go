package book

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// UpcomingWindowDays is the inclusive size of the upcoming-birthdays window.
	UpcomingWindowDays = 7
	hoursPerDay        = 24
)

// Upcoming is one entry of Directory.UpcomingBirthdays.
type Upcoming struct {
	Name string
	// Date is the day to congratulate on: the projected birthday, moved to the
	// following Monday when it falls on a weekend.
	Date time.Time
}

func (u Upcoming) String() string {
	return fmt.Sprintf("%s's birthday %s", u.Name, u.Date.Format(DateLayout))
}

// Directory maps contact names to records. Names are used verbatim as keys; callers
// normalize them before lookups. Iteration follows insertion order.
//
// A Directory is not safe for concurrent use.
type Directory struct {
	records map[string]*Record
	order   []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// AddRecord stores r under its name unless that name is already taken. An existing
// record is never replaced; the result reports whether r was inserted.
func (d *Directory) AddRecord(r *Record) bool {
	if r == nil {
		return false
	}
	key := r.Name()
	if _, ok := d.records[key]; ok {
		return false
	}
	d.records[key] = r
	d.order = append(d.order, key)
	return true
}

// Find returns the record stored under name.
func (d *Directory) Find(name string) (*Record, error) {
	r, ok := d.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: contact %q", ErrNotFound, name)
	}
	return r, nil
}

// Delete removes the record stored under name. Missing names are ignored; the result
// reports whether something was removed.
func (d *Directory) Delete(name string) bool {
	if _, ok := d.records[name]; !ok {
		return false
	}
	delete(d.records, name)
	if i := slices.Index(d.order, name); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	return true
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.order)
}

// Records returns the records in insertion order.
func (d *Directory) Records() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.records[key])
	}
	return out
}

// UpcomingBirthdays lists contacts to congratulate within UpcomingWindowDays of today.
//
// Each birthday is projected onto today's year (next year for January birthdays seen from
// December). A projection 0..7 days ahead qualifies; a Saturday or Sunday is then moved to
// the next Monday and the window is checked again, so a shifted date past day 7 is dropped.
// Results follow the directory order.
func (d *Directory) UpcomingBirthdays(today time.Time) []Upcoming {
	today = dateOf(today)
	var out []Upcoming
	for _, r := range d.Records() {
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		date := projectBirthday(b.Date(), today)
		if !inWindow(today, date) {
			continue
		}
		date = nextWorkday(date)
		if !inWindow(today, date) {
			continue
		}
		out = append(out, Upcoming{Name: r.Name(), Date: date})
	}
	return out
}

// projectBirthday moves birth onto the birthday year relative to today.
// Feb 29 lands on Mar 1 in non-leap years.
func projectBirthday(birth, today time.Time) time.Time {
	year := today.Year()
	if today.Month() == time.December && birth.Month() == time.January {
		year++
	}
	return time.Date(year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
}

// nextWorkday moves weekend dates to the following Monday.
func nextWorkday(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, 2)
	case time.Sunday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}

func inWindow(today, date time.Time) bool {
	delta := daysBetween(today, date)
	return delta >= 0 && delta <= UpcomingWindowDays
}

// daysBetween counts whole days from a to b; both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / hoursPerDay)
}

func (d *Directory) String() string {
	if len(d.order) == 0 {
		return "Address book is empty."
	}
	lines := make([]string, 0, len(d.order))
	for _, r := range d.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
