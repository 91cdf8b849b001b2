// Package date provides calendar helpers: parsing and formatting with
// SimpleDateFormat-style patterns, Unix timestamp conversion, start-of-day
// truncation and calendar arithmetic.
//
// Basic Usage:
//
//	t, err := date.Parse("2024-03-01 08:30:00", date.DefaultPattern)
//	if errors.Is(err, date.ErrParseFailure) {
//	    // input did not match the pattern
//	}
//
//	s, _ := date.FormatTimestamp(1709282400, "yyyy/MM/dd")
//	next := date.AddDate(t, 1, 1, 0) // one month and one day later, at 00:00
//
// Quoted text and non-letter characters in a pattern are copied as is, so
// "'Week' w" is rejected but "'Week of' dd/MM" prints "Week of 05/03". See
// Pattern for the supported letters.
//
// Timestamps with exactly ten digits are read as Unix seconds; every other
// value is read as Unix milliseconds.
//
// The package-level functions use Default, which reads the system clock in
// the local time zone. Build a Calendar with New to pin the clock or
// location.
package date
