package date

import "time"

// Default is the Calendar behind the package-level functions.
var Default = New()

// Parse reads value according to pattern using Default.
func Parse(value, pattern string) (time.Time, error) {
	return Default.Parse(value, pattern)
}

// Format renders t according to pattern using Default.
func Format(t time.Time, pattern string) (string, error) {
	return Default.Format(t, pattern)
}

// FormatTimestamp renders a Unix timestamp according to pattern using Default.
func FormatTimestamp(ts int64, pattern string) (string, error) {
	return Default.FormatTimestamp(ts, pattern)
}

// FromTimestamp converts a Unix timestamp using Default.
func FromTimestamp(ts int64) time.Time {
	return Default.FromTimestamp(ts)
}

// StartOfDay returns midnight of the given day using Default.
func StartOfDay(year int, month time.Month, day int) time.Time {
	return Default.StartOfDay(year, month, day)
}

// Truncate drops the time of day from t using Default.
func Truncate(t time.Time) time.Time {
	return Default.Truncate(t)
}

// TruncateTimestamp drops the time of day from a timestamp using Default.
func TruncateTimestamp(ts int64) time.Time {
	return Default.TruncateTimestamp(ts)
}

// AddDays moves t by days using Default.
func AddDays(t time.Time, days int) time.Time {
	return Default.AddDays(t, days)
}

// AddDate moves t by years, months and days using Default.
func AddDate(t time.Time, days, months, years int) time.Time {
	return Default.AddDate(t, days, months, years)
}

// Today returns the start of the current day using Default.
func Today() time.Time {
	return Default.Today()
}
