package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// CalendarGenerator renders the birthdays of a directory as an iCalendar feed.
type CalendarGenerator struct {
	Clock book.Clock

	// FormatSummary and FormatGreeting let the caller inject localized strings.
	FormatSummary  func(name string, age int, yearKnown bool) string
	FormatGreeting func(name string) string

	// ReminderTrigger is an ISO 8601 duration (e.g. "-P1D"); empty disables alarms.
	ReminderTrigger string
}

type calendarStats struct {
	withBday, today, upcoming int
}

// Generate builds the feed: yearly birthday events for the previous, current and next
// year, plus one greeting event per upcoming birthday on its (weekend-shifted) day.
func (g *CalendarGenerator) Generate(ctx context.Context, dir *book.Directory) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar day; only DTSTAMP is absolute.
	now := g.Clock.Now()
	today := book.Today(g.Clock)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	var stats calendarStats
	for _, r := range dir.Records() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		stats.withBday++

		events, isToday := g.createEvents(r.Name(), b.Date(), today)
		if isToday {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, r.Name(),
				config.LogKeyDOB, b.String())
		}
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	for _, u := range dir.UpcomingBirthdays(today) {
		e := g.greetingEvent(u)
		e.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, e.Component)
		stats.upcoming++
	}

	if len(cal.Children) == 0 {
		g.logSuccess(stats)
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats)
	return buf.Bytes(), nil
}

func (g *CalendarGenerator) logSuccess(stats calendarStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
			slog.Int(config.LogKeyUpcoming, stats.upcoming),
		),
	)
}

// createEvents generates all-day events for today's year and the years around it,
// skipping years before the person was born.
func (g *CalendarGenerator) createEvents(name string, birthDate, today time.Time) ([]*ical.Event, bool) {
	currentYear := today.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	uidBase := contactUID(name)

	var events []*ical.Event
	isToday := false

	for _, y := range targetYears {
		if y < birthDate.Year() {
			continue
		}

		age := y - birthDate.Year()
		summary := fmt.Sprintf(config.FallbackSummaryAge, name, age)
		if age == 0 {
			summary = fmt.Sprintf(config.FallbackSummaryBirth, name)
		}
		if g.FormatSummary != nil {
			summary = g.FormatSummary(name, age, true)
		}

		// time.Date moves Feb 29 to Mar 1 in non-leap years.
		eventDate := time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
		if eventDate.Equal(today) {
			isToday = true
		}

		uid := fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain)
		events = append(events, g.allDayEvent(uid, summary, eventDate))
	}
	return events, isToday
}

func (g *CalendarGenerator) greetingEvent(u book.Upcoming) *ical.Event {
	summary := fmt.Sprintf(config.FallbackGreeting, u.Name)
	if g.FormatGreeting != nil {
		summary = g.FormatGreeting(u.Name)
	}
	uid := fmt.Sprintf(config.FormatUID, contactUID(u.Name)+"-"+config.ICalGreeting, u.Date.Year(), config.ICalDomain)
	return g.allDayEvent(uid, summary, u.Date)
}

func (g *CalendarGenerator) allDayEvent(uid, summary string, date time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(date)
	event.Props.Set(dtStartProp)

	if g.ReminderTrigger != "" {
		addAlarm(event, g.ReminderTrigger, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set the value directly to avoid a VALUE=TEXT parameter.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
