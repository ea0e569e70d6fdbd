package calendar

import (
	"fmt"
	"time"

	"github.com/goliatone/go-listviews/pkg/search"
)

// Event is one item placed on the calendar. End is zero for single-day
// events.
type Event struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Item  any       `json:"item"`
}

// WeekEvent places a multi-day event on one week row. Slot is the 1-based
// column the bar starts in and Width the number of days it covers within the
// week. NowrapPrevious is false when the event continues from the previous
// week; NowrapNext is false when it continues into the next one.
type WeekEvent struct {
	Event          Event `json:"event"`
	Slot           int   `json:"slot"`
	Width          int   `json:"width"`
	NowrapPrevious bool  `json:"nowrapPrevious"`
	NowrapNext     bool  `json:"nowrapNext"`
}

// Day is a cell of the grid.
type Day struct {
	Date           time.Time `json:"date"`
	Events         []Event   `json:"events"`
	Today          bool      `json:"today"`
	IsCurrentMonth bool      `json:"isCurrentMonth"`
}

// Week is a row of seven days.
type Week struct {
	Events []WeekEvent `json:"events"`
	Days   []Day       `json:"days"`
}

// Month is the grid for one month plus navigation.
type Month struct {
	Month    time.Time      `json:"month"`
	Weeks    []Week         `json:"weeks"`
	Weekdays []time.Weekday `json:"weekdays"`
	Next     time.Time      `json:"next"`
	Previous time.Time      `json:"previous"`
}

// WeekdayNames returns the English weekday names in grid order.
func (m Month) WeekdayNames() []string {
	out := make([]string, len(m.Weekdays))
	for i, d := range m.Weekdays {
		out[i] = d.String()
	}
	return out
}

// VisibleRange returns the first visible day of the grid and the day after
// the last visible one, so the range is [since, until).
func (c Config) VisibleRange(month time.Time) (since, until time.Time) {
	first := c.dateOf(month)
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	start := c.WeekStart()

	back := (int(first.Weekday()) - int(start) + 7) % 7
	since = first.AddDate(0, 0, -back)

	last := first.AddDate(0, 1, -1)
	end := time.Weekday((int(start) + 6) % 7)
	forward := (int(end) - int(last.Weekday()) + 7) % 7
	until = last.AddDate(0, 0, forward+1)
	return since, until
}

// OverlapFilter selects records visible in [since, until). Without an end
// field the start date must fall in the range. With one, an event is visible
// when it is a single-day event starting in range, or its span intersects the
// range in any of the four multi-day arrangements.
func OverlapFilter(dateField, endDateField string, since, until time.Time) search.Filter {
	startsInRange := search.And{
		search.Condition{Field: dateField, Lookup: search.LookupGTE, Value: since},
		search.Condition{Field: dateField, Lookup: search.LookupLT, Value: until},
	}
	if endDateField == "" {
		return startsInRange
	}
	return search.Or{
		// single day
		search.And{startsInRange, search.Condition{Field: endDateField, Lookup: search.LookupIsNull, Value: true}},
		// contained
		search.And{
			search.Condition{Field: dateField, Lookup: search.LookupGTE, Value: since},
			search.Condition{Field: endDateField, Lookup: search.LookupLT, Value: until},
		},
		// overlaps the start
		search.And{
			search.Condition{Field: dateField, Lookup: search.LookupLT, Value: since},
			search.Condition{Field: endDateField, Lookup: search.LookupGTE, Value: since},
			search.Condition{Field: endDateField, Lookup: search.LookupLT, Value: until},
		},
		// overlaps the end
		search.And{
			startsInRange,
			search.Condition{Field: endDateField, Lookup: search.LookupGTE, Value: until},
		},
		// covers the whole range
		search.And{
			search.Condition{Field: dateField, Lookup: search.LookupLT, Value: since},
			search.Condition{Field: endDateField, Lookup: search.LookupGTE, Value: until},
		},
	}
}

// Filter returns the overlap filter for month using the configured fields.
func (c Config) Filter(month time.Time) search.Filter {
	since, until := c.VisibleRange(month)
	return OverlapFilter(c.DateField, c.EndDateField, since, until)
}

// EventsFrom extracts events from records using the configured date fields.
// Records without a start time are skipped.
func EventsFrom[G search.Getter](c Config, records []G) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		start, ok := timeField(rec, c.DateField)
		if !ok {
			continue
		}
		ev := Event{Start: start, Item: rec}
		if c.EndDateField != "" {
			if end, ok := timeField(rec, c.EndDateField); ok {
				ev.End = end
			}
		}
		events = append(events, ev)
	}
	return events
}

// BuildMonth lays events out on the grid for month.
func (c Config) BuildMonth(month time.Time, events []Event) (Month, error) {
	if c.FirstOfWeek < 0 || c.FirstOfWeek > 6 {
		return Month{}, fmt.Errorf("%w: first of week must be between 0 and 6, got %d", ErrImproperlyConfigured, c.FirstOfWeek)
	}
	first := c.dateOf(month)
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	since, until := c.VisibleRange(first)
	today := c.dateOf(c.now())

	type span struct {
		event      Event
		start, end time.Time
	}
	byDay := make(map[time.Time][]Event)
	var spans []span
	for _, ev := range events {
		start := c.dateOf(ev.Start)
		if !ev.End.IsZero() {
			end := c.dateOf(ev.End)
			if end.After(start) {
				spans = append(spans, span{event: ev, start: start, end: end})
				continue
			}
		}
		byDay[start] = append(byDay[start], ev)
	}

	out := Month{
		Month:    first,
		Next:     first.AddDate(0, 1, 0),
		Previous: first.AddDate(0, -1, 0),
	}
	for i := 0; i < 7; i++ {
		out.Weekdays = append(out.Weekdays, time.Weekday((int(c.WeekStart())+i)%7))
	}

	for weekStart := since; weekStart.Before(until); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 6)
		week := Week{Events: []WeekEvent{}, Days: make([]Day, 0, 7)}

		for _, s := range spans {
			lo := maxDate(s.start, weekStart)
			hi := minDate(s.end, weekEnd)
			if hi.Before(lo) {
				continue
			}
			we := WeekEvent{
				Event:          s.event,
				Slot:           1,
				Width:          daysBetween(lo, hi) + 1,
				NowrapPrevious: true,
				NowrapNext:     true,
			}
			if !s.start.Before(weekStart) {
				we.Slot = 1 + daysBetween(weekStart, s.start)
			} else {
				we.NowrapPrevious = false
			}
			if s.end.After(weekEnd) {
				we.NowrapNext = false
			}
			week.Events = append(week.Events, we)
		}

		for i := 0; i < 7; i++ {
			day := weekStart.AddDate(0, 0, i)
			dayEvents := byDay[day]
			if dayEvents == nil {
				dayEvents = []Event{}
			}
			week.Days = append(week.Days, Day{
				Date:           day,
				Events:         dayEvents,
				Today:          day.Equal(today),
				IsCurrentMonth: day.Month() == first.Month(),
			})
		}
		out.Weeks = append(out.Weeks, week)
	}
	return out, nil
}

func (c Config) dateOf(t time.Time) time.Time {
	t = t.In(c.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}

func timeField(rec search.Getter, field string) (time.Time, bool) {
	raw, ok := rec.Get(field)
	if !ok {
		return time.Time{}, false
	}
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
