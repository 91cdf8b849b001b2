package date

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Calendar performs date conversions and arithmetic in one location,
// reading the current time from a clock.
type Calendar struct {
	clock clock.Clock
	loc   *time.Location
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithClock sets the clock used by Today.
func WithClock(c clock.Clock) Option {
	return func(cal *Calendar) {
		if c != nil {
			cal.clock = c
		}
	}
}

// WithLocation sets the time zone used for parsing, formatting and day
// boundaries.
func WithLocation(loc *time.Location) Option {
	return func(cal *Calendar) {
		if loc != nil {
			cal.loc = loc
		}
	}
}

// New creates a Calendar. It defaults to the system clock and time.Local.
func New(options ...Option) *Calendar {
	cal := &Calendar{
		clock: clock.New(),
		loc:   time.Local,
	}
	for _, option := range options {
		option(cal)
	}
	return cal
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Parse reads value according to pattern. Input that does not match the
// pattern yields ErrParseFailure.
func (c *Calendar) Parse(value, pattern string) (time.Time, error) {
	p, err := Compile(pattern)
	if err != nil {
		return time.Time{}, err
	}
	return p.Parse(value, c.loc)
}

// Format renders t in the calendar's location. An empty pattern means
// DefaultPattern.
func (c *Calendar) Format(t time.Time, pattern string) (string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return p.Format(t.In(c.loc)), nil
}

// FormatTimestamp renders a Unix timestamp in seconds or milliseconds.
func (c *Calendar) FormatTimestamp(ts int64, pattern string) (string, error) {
	return c.Format(c.FromTimestamp(ts), pattern)
}

// FromTimestamp converts a Unix timestamp to a time in the calendar's
// location. Ten-digit values are seconds, all others milliseconds.
func (c *Calendar) FromTimestamp(ts int64) time.Time {
	if isSeconds(ts) {
		return time.Unix(ts, 0).In(c.loc)
	}
	return time.UnixMilli(ts).In(c.loc)
}

// StartOfDay returns 00:00:00.000 of the given day. Out-of-range values are
// normalized, so day 0 is the last day of the previous month.
func (c *Calendar) StartOfDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, c.loc)
}

// Truncate drops the time of day from t.
func (c *Calendar) Truncate(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return c.StartOfDay(y, m, d)
}

// TruncateTimestamp drops the time of day from a Unix timestamp.
func (c *Calendar) TruncateTimestamp(ts int64) time.Time {
	return c.Truncate(c.FromTimestamp(ts))
}

// AddDays moves t by days and returns the start of the resulting day.
func (c *Calendar) AddDays(t time.Time, days int) time.Time {
	return c.AddDate(t, days, 0, 0)
}

// AddDate moves t by years, then months, then days, and returns the start
// of the resulting day. Year and month steps clamp to the last day of the
// target month, so Jan 31 plus one month is the end of February.
func (c *Calendar) AddDate(t time.Time, days, months, years int) time.Time {
	t = t.In(c.loc)
	t = addMonths(t, years*12)
	t = addMonths(t, months)
	t = t.AddDate(0, 0, days)
	return c.Truncate(t)
}

// Today returns the start of the current day.
func (c *Calendar) Today() time.Time {
	return c.Truncate(c.clock.Now())
}

func addMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}

	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func isSeconds(ts int64) bool {
	return ts >= 1_000_000_000 && ts <= 9_999_999_999
}
