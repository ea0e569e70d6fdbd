package calendar

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/schema"
)

var (
	// ErrImproperlyConfigured reports an unusable calendar configuration.
	ErrImproperlyConfigured = errors.New("calendar: improperly configured")
	// ErrInvalidDate is returned when the year or month cannot be parsed.
	ErrInvalidDate = errors.New("calendar: invalid date")
)

const (
	DefaultYearFormat  = "2006"
	DefaultMonthFormat = "Jan"
)

// Config controls grid layout and request parsing.
type Config struct {
	// FirstOfWeek is 0 for Monday through 6 for Sunday.
	FirstOfWeek int    `json:"firstOfWeek" yaml:"firstOfWeek"`
	YearFormat  string `json:"yearFormat,omitempty" yaml:"yearFormat,omitempty"`
	MonthFormat string `json:"monthFormat,omitempty" yaml:"monthFormat,omitempty"`
	// DateField and EndDateField name the record fields holding the event
	// start and optional end.
	DateField    string `json:"dateField" yaml:"dateField"`
	EndDateField string `json:"endDateField,omitempty" yaml:"endDateField,omitempty"`

	Location *time.Location   `json:"-" yaml:"-"`
	Now      func() time.Time `json:"-" yaml:"-"`
}

// Validate checks the weekday range and date formats.
func (c Config) Validate() error {
	if c.FirstOfWeek < 0 || c.FirstOfWeek > 6 {
		return fmt.Errorf("%w: first of week must be between 0 and 6, got %d", ErrImproperlyConfigured, c.FirstOfWeek)
	}
	if strings.TrimSpace(c.DateField) == "" {
		return fmt.Errorf("%w: date field is required", ErrImproperlyConfigured)
	}
	return nil
}

// WeekStart returns the configured first weekday as a time.Weekday.
func (c Config) WeekStart() time.Weekday {
	return time.Weekday((c.FirstOfWeek + 1) % 7)
}

func (c Config) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now().In(c.location())
	}
	return time.Now().In(c.location())
}

func (c Config) yearFormat() string {
	if c.YearFormat != "" {
		return c.YearFormat
	}
	return DefaultYearFormat
}

func (c Config) monthFormat() string {
	if c.MonthFormat != "" {
		return c.MonthFormat
	}
	return DefaultMonthFormat
}

// Params are the year and month request parameters.
type Params struct {
	Year  string `schema:"year"`
	Month string `schema:"month"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeParams reads year and month from values.
func DecodeParams(values url.Values) (Params, error) {
	var p Params
	if err := decoder.Decode(&p, values); err != nil {
		return Params{}, fmt.Errorf("calendar: decode params: %w", err)
	}
	p.Year = strings.TrimSpace(p.Year)
	p.Month = strings.TrimSpace(p.Month)
	return p, nil
}

// ParseMonth returns the first day of the requested month. Missing values
// default to the current year or month.
func (c Config) ParseMonth(p Params) (time.Time, error) {
	now := c.now()
	year := now.Year()
	month := now.Month()

	if p.Year != "" {
		parsed, err := time.Parse(c.yearFormat(), p.Year)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: year %q: %v", ErrInvalidDate, p.Year, err)
		}
		year = parsed.Year()
	}
	if p.Month != "" {
		parsed, err := time.Parse(c.monthFormat(), p.Month)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: month %q: %v", ErrInvalidDate, p.Month, err)
		}
		month = parsed.Month()
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, c.location()), nil
}

// MonthFromQuery decodes and parses the month in values.
func (c Config) MonthFromQuery(values url.Values) (time.Time, error) {
	p, err := DecodeParams(values)
	if err != nil {
		return time.Time{}, err
	}
	return c.ParseMonth(p)
}

// FormatMonth renders month using the configured formats, suitable for
// building next and previous links.
func (c Config) FormatMonth(month time.Time) Params {
	return Params{Year: month.Format(c.yearFormat()), Month: month.Format(c.monthFormat())}
}
