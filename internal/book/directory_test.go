package book_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/book"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withBirthday builds a record with a birthday set.
func withBirthday(t *testing.T, name, birthday string) *book.Record {
	t.Helper()
	r := newRecord(t, name)
	require.NoError(t, r.AddBirthday(birthday))
	return r
}

func TestDirectory_AddRecord(t *testing.T) {
	d := book.NewDirectory()
	original := newRecord(t, "John", "1111111111")

	assert.True(t, d.AddRecord(original))

	duplicate := newRecord(t, "John", "2222222222")
	assert.False(t, d.AddRecord(duplicate), "Second add under the same name is a no-op")

	found, err := d.Find("John")
	require.NoError(t, err)
	assert.Same(t, original, found)
	assert.Equal(t, []string{"1111111111"}, found.PhoneValues())
	assert.Equal(t, 1, d.Len())

	assert.False(t, d.AddRecord(nil))
}

func TestDirectory_Find(t *testing.T) {
	d := book.NewDirectory()
	d.AddRecord(newRecord(t, "John"))

	_, err := d.Find("john")
	assert.ErrorIs(t, err, book.ErrNotFound, "Lookup is exact, no normalization")

	_, err = d.Find("Jo")
	assert.ErrorIs(t, err, book.ErrNotFound, "No partial matching")
}

func TestDirectory_Delete(t *testing.T) {
	d := book.NewDirectory()
	d.AddRecord(newRecord(t, "Anna"))
	d.AddRecord(newRecord(t, "John"))
	d.AddRecord(newRecord(t, "Mary"))

	assert.True(t, d.Delete("John"))
	assert.False(t, d.Delete("John"), "Deleting a missing name is a no-op")

	names := make([]string, 0)
	for _, r := range d.Records() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"Anna", "Mary"}, names)

	// A deleted name can be added again and goes to the end.
	d.AddRecord(newRecord(t, "John"))
	assert.Equal(t, "John", d.Records()[2].Name())
}

func TestDirectory_String(t *testing.T) {
	d := book.NewDirectory()
	assert.Equal(t, "Address book is empty.", d.String())

	d.AddRecord(newRecord(t, "John", "1111111111"))
	d.AddRecord(newRecord(t, "Anna"))
	assert.Equal(t,
		"Contact: John, Phones: ['1111111111'], Birthday: Not set\n"+
			"Contact: Anna, Phones: Empty list, Birthday: Not set",
		d.String())
}

func TestDirectory_UpcomingBirthdays(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		birthday string
		want     string // DD.MM.YYYY, empty when excluded
		desc     string
	}{
		{
			name:     "Weekday inside window",
			today:    day(2024, time.December, 20), // Friday
			birthday: "25.12.1990",
			want:     "25.12.2024",
			desc:     "Wednesday five days ahead is reported as is",
		},
		{
			name:     "Birthday today",
			today:    day(2024, time.December, 20),
			birthday: "20.12.1985",
			want:     "20.12.2024",
			desc:     "Delta 0 is inside the window",
		},
		{
			name:     "Already passed",
			today:    day(2024, time.December, 20),
			birthday: "10.12.1985",
			desc:     "Negative delta is excluded",
		},
		{
			name:     "Eight days ahead",
			today:    day(2024, time.December, 20),
			birthday: "28.12.1985",
			desc:     "Window is 0..7 inclusive",
		},
		{
			name:     "December to January wraparound",
			today:    day(2024, time.December, 29),
			birthday: "02.01.1995",
			want:     "02.01.2025",
			desc:     "January birthday seen from December is projected to next year",
		},
		{
			name:     "January birthday far from late December",
			today:    day(2024, time.December, 20),
			birthday: "05.01.1995",
			desc:     "Projected to 05.01.2025, sixteen days away",
		},
		{
			name:     "January birthday seen from January",
			today:    day(2025, time.January, 2),
			birthday: "03.01.1995",
			want:     "03.01.2025",
			desc:     "No year bump outside December",
		},
		{
			name:     "Saturday shifted inside window",
			today:    day(2024, time.December, 16), // Monday
			birthday: "21.12.1990",
			want:     "23.12.2024",
			desc:     "Saturday moves to Monday, seven days out",
		},
		{
			name:     "Sunday shifted inside window",
			today:    day(2024, time.December, 18),
			birthday: "22.12.1990",
			want:     "23.12.2024",
			desc:     "Sunday moves to Monday",
		},
		{
			name:     "Saturday shifted out of window",
			today:    day(2024, time.December, 15), // Sunday
			birthday: "21.12.1990",
			desc:     "Saturday six days out becomes Monday eight days out",
		},
		{
			name:     "Sunday shifted out of window",
			today:    day(2024, time.December, 15),
			birthday: "22.12.1990",
			desc:     "Sunday seven days out becomes Monday eight days out",
		},
		{
			name:     "Leap day in non-leap year",
			today:    day(2025, time.February, 25),
			birthday: "29.02.2000",
			want:     "03.03.2025",
			desc:     "Feb 29 rolls to Saturday Mar 1, then to Monday Mar 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := book.NewDirectory()
			d.AddRecord(withBirthday(t, "John", tt.birthday))

			got := d.UpcomingBirthdays(tt.today)

			if tt.want == "" {
				assert.Empty(t, got, tt.desc)
				return
			}
			require.Len(t, got, 1, tt.desc)
			assert.Equal(t, "John", got[0].Name)
			assert.Equal(t, tt.want, got[0].Date.Format(book.DateLayout), tt.desc)
		})
	}
}

func TestDirectory_UpcomingBirthdays_OrderAndSkips(t *testing.T) {
	d := book.NewDirectory()
	d.AddRecord(withBirthday(t, "Zoe", "24.12.1990"))
	d.AddRecord(newRecord(t, "Nobody", "1111111111"))
	d.AddRecord(withBirthday(t, "Adam", "21.12.1990"))
	d.AddRecord(withBirthday(t, "Late", "01.11.1990"))

	got := d.UpcomingBirthdays(day(2024, time.December, 20))

	require.Len(t, got, 2)
	assert.Equal(t, "Zoe's birthday 24.12.2024", got[0].String(), "Directory order, no sorting")
	assert.Equal(t, "Adam's birthday 23.12.2024", got[1].String())
}

func TestDirectory_UpcomingBirthdays_IgnoresTimeOfDay(t *testing.T) {
	d := book.NewDirectory()
	d.AddRecord(withBirthday(t, "John", "20.12.1990"))

	late := time.Date(2024, time.December, 20, 23, 59, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	got := d.UpcomingBirthdays(late)

	require.Len(t, got, 1)
	assert.Equal(t, "20.12.2024", got[0].Date.Format(book.DateLayout))
}

func TestToday(t *testing.T) {
	clock := fixedClock{time.Date(2024, time.March, 3, 18, 45, 0, 0, time.Local)}
	assert.Equal(t, day(2024, time.March, 3), book.Today(clock))
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
