package date

import (
	"fmt"
	"strings"
	"time"
)

// fields collects parsed values before they are assembled into a time.
type fields struct {
	year, month, day     int
	hour, minute, second int
	milli                int
	hour12               int
	pm, hasMeridiem      bool
	loc                  *time.Location
}

// Parse reads value against the pattern. Values without a zone field are
// interpreted in loc. Missing fields default to 1970-01-01 00:00:00.
func (p *Pattern) Parse(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	f := fields{year: 1970, month: 1, day: 1, hour12: -1, loc: loc}

	rest := value
	for i, seg := range p.segments {
		var err error
		if seg.letter == 0 {
			if !strings.HasPrefix(rest, seg.literal) {
				return time.Time{}, p.parseError(value, fmt.Sprintf("expected %q", seg.literal))
			}
			rest = rest[len(seg.literal):]
			continue
		}

		abutting := i+1 < len(p.segments) && p.segments[i+1].numeric()
		rest, err = f.read(seg, rest, abutting)
		if err != nil {
			return time.Time{}, p.parseError(value, err.Error())
		}
	}
	if rest != "" {
		return time.Time{}, p.parseError(value, fmt.Sprintf("unexpected trailing text %q", rest))
	}

	return f.assemble(p, value)
}

func (p *Pattern) parseError(value, reason string) error {
	return fmt.Errorf("%w: %q does not match %q: %s", ErrParseFailure, value, p.source, reason)
}

func (f *fields) read(seg segment, s string, abutting bool) (string, error) {
	if seg.numeric() {
		width := 0
		if abutting {
			width = seg.count
		}
		v, rest, ok := digits(s, width)
		if !ok {
			return s, fmt.Errorf("expected digits for %s", strings.Repeat(string(seg.letter), seg.count))
		}
		f.set(seg, v, rest, s)
		return rest, nil
	}

	switch seg.letter {
	case 'M':
		v, rest, ok := lookup(s, monthNames)
		if !ok {
			return s, fmt.Errorf("expected month name")
		}
		f.month = v + 1
		return rest, nil
	case 'E':
		// The weekday is checked for syntax only; the date fields decide.
		_, rest, ok := lookup(s, dayNames)
		if !ok {
			return s, fmt.Errorf("expected weekday name")
		}
		return rest, nil
	case 'a':
		v, rest, ok := lookup(s, []string{"AM", "PM"})
		if !ok {
			return s, fmt.Errorf("expected AM or PM")
		}
		f.hasMeridiem = true
		f.pm = v == 1
		return rest, nil
	case 'z':
		return f.readZoneName(s)
	case 'Z', 'X':
		return f.readOffset(s, seg.letter == 'X')
	}
	return s, fmt.Errorf("unsupported field %q", seg.letter)
}

func (f *fields) set(seg segment, v int, rest, s string) {
	switch seg.letter {
	case 'y':
		if seg.count == 2 && len(s)-len(rest) == 2 {
			// Two-digit years pivot the same way time.Parse does.
			if v >= 69 {
				v += 1900
			} else {
				v += 2000
			}
		}
		f.year = v
	case 'M':
		f.month = v
	case 'd':
		f.day = v
	case 'H':
		f.hour = v
	case 'h':
		f.hour12 = v
	case 'm':
		f.minute = v
	case 's':
		f.second = v
	case 'S':
		f.milli = v
	}
}

func (f *fields) readZoneName(s string) (string, error) {
	for _, name := range []string{"UTC", "GMT"} {
		if strings.HasPrefix(s, name) {
			f.loc = time.UTC
			return s[len(name):], nil
		}
	}
	// Match either the standard or the daylight abbreviation of loc.
	for _, month := range []time.Month{time.January, time.July} {
		name, _ := time.Date(f.year, month, 1, 0, 0, 0, 0, f.loc).Zone()
		if name != "" && strings.HasPrefix(s, name) {
			return s[len(name):], nil
		}
	}
	return s, fmt.Errorf("unknown zone")
}

func (f *fields) readOffset(s string, iso bool) (string, error) {
	if iso && strings.HasPrefix(s, "Z") {
		f.loc = time.UTC
		return s[1:], nil
	}
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return s, fmt.Errorf("expected zone offset")
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, rest, ok := digits(s[1:], 2)
	if !ok {
		return s, fmt.Errorf("expected zone offset")
	}
	mm := 0
	if strings.HasPrefix(rest, ":") {
		rest = rest[1:]
	}
	if m, r, ok := digits(rest, 2); ok {
		mm, rest = m, r
	}
	if hh > 18 || mm > 59 {
		return s, fmt.Errorf("zone offset out of range")
	}

	offset := sign * (hh*3600 + mm*60)
	if offset == 0 {
		f.loc = time.UTC
	} else {
		f.loc = time.FixedZone("", offset)
	}
	return rest, nil
}

func (f *fields) assemble(p *Pattern, value string) (time.Time, error) {
	hour := f.hour
	if f.hour12 >= 0 {
		if f.hour12 < 1 || f.hour12 > 12 {
			return time.Time{}, p.parseError(value, "hour out of range")
		}
		hour = f.hour12 % 12
	}
	if f.hasMeridiem && f.pm && hour < 12 {
		hour += 12
	}

	switch {
	case f.month < 1 || f.month > 12:
		return time.Time{}, p.parseError(value, "month out of range")
	case f.day < 1 || f.day > daysIn(f.year, time.Month(f.month), time.UTC):
		return time.Time{}, p.parseError(value, "day out of range")
	case hour > 23:
		return time.Time{}, p.parseError(value, "hour out of range")
	case f.minute > 59:
		return time.Time{}, p.parseError(value, "minute out of range")
	case f.second > 59:
		return time.Time{}, p.parseError(value, "second out of range")
	case f.milli > 999:
		return time.Time{}, p.parseError(value, "millisecond out of range")
	}

	return time.Date(f.year, time.Month(f.month), f.day, hour, f.minute, f.second,
		f.milli*int(time.Millisecond), f.loc), nil
}

// digits reads exactly width digits, or as many as are present when width
// is zero.
func digits(s string, width int) (int, string, bool) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' && (width == 0 || n < width) {
		n++
	}
	if n == 0 || (width > 0 && n != width) || n > 9 {
		return 0, s, false
	}
	v := 0
	for _, c := range s[:n] {
		v = v*10 + int(c-'0')
	}
	return v, s[n:], true
}

var (
	monthNames = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	dayNames = []string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	}
)

// lookup matches a full or three-letter name at the start of s, ignoring
// case, and returns its index.
func lookup(s string, names []string) (int, string, bool) {
	for i, name := range names {
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return i, s[len(name):], true
		}
	}
	for i, name := range names {
		if len(name) > 3 && len(s) >= 3 && strings.EqualFold(s[:3], name[:3]) {
			return i, s[3:], true
		}
	}
	return 0, s, false
}
