package date

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultPattern is used when an empty pattern is given.
const DefaultPattern = "yyyy-MM-dd HH:mm:ss"

var (
	ErrParseFailure   = errors.New("date parse failure")
	ErrInvalidPattern = errors.New("invalid date pattern")
)

// Pattern is a compiled SimpleDateFormat-style pattern such as
// "yyyy-MM-dd HH:mm:ss.SSS".
//
// Supported letters:
//
//	y   year; yy is the two-digit year
//	M   month; MMM abbreviated name, MMMM full name
//	d   day of month
//	H   hour of day (0-23)
//	h   hour of am/pm (1-12)
//	m   minute
//	s   second
//	S   millisecond
//	a   AM/PM marker
//	E   weekday name; EEEE full name
//	z   zone abbreviation
//	Z   RFC 822 offset (-0700)
//	X   ISO 8601 offset; X, XX, XXX give Z or -07, -0700, -07:00
//
// Numeric fields are padded with zeros to the letter count, so H prints
// "7" and HH prints "07". Text inside single quotes is literal and '' is a
// quote. Any other ASCII letter is rejected; all other characters are
// literal.
//
// Parsing is strict: every literal must match, fields must be in range and
// the whole input must be consumed.
type Pattern struct {
	source   string
	segments []segment
}

// segment is either a literal (letter == 0) or a run of count pattern
// letters.
type segment struct {
	letter  byte
	count   int
	literal string
}

func (s segment) numeric() bool {
	switch s.letter {
	case 'y', 'd', 'H', 'h', 'm', 's', 'S':
		return true
	case 'M':
		return s.count < 3
	}
	return false
}

// Compile parses pattern. An empty pattern means DefaultPattern.
func Compile(pattern string) (*Pattern, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	p := &Pattern{source: pattern}
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			p.segments = append(p.segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				literal.WriteByte('\'')
				i += 2
				continue
			}
			i++
			for {
				if i >= len(pattern) {
					return nil, fmt.Errorf("%w: unterminated quote in %q", ErrInvalidPattern, pattern)
				}
				if pattern[i] == '\'' {
					if i+1 < len(pattern) && pattern[i+1] == '\'' {
						literal.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				literal.WriteByte(pattern[i])
				i++
			}

		case isLetter(c):
			if !strings.ContainsRune("yMdHhmsSaEzZX", rune(c)) {
				return nil, fmt.Errorf("%w: unsupported letter %q in %q", ErrInvalidPattern, c, pattern)
			}
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			if c == 'X' && n > 3 {
				return nil, fmt.Errorf("%w: too many X in %q", ErrInvalidPattern, pattern)
			}
			flush()
			p.segments = append(p.segments, segment{letter: c, count: n})
			i += n

		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()

	return p, nil
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.source
}

// Format renders t field by field in t's own location.
func (p *Pattern) Format(t time.Time) string {
	var sb strings.Builder
	for _, seg := range p.segments {
		if seg.letter == 0 {
			sb.WriteString(seg.literal)
			continue
		}
		sb.WriteString(formatField(seg, t))
	}
	return sb.String()
}

func formatField(seg segment, t time.Time) string {
	n := seg.count
	switch seg.letter {
	case 'y':
		if n == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), n)
	case 'M':
		switch {
		case n >= 4:
			return t.Month().String()
		case n == 3:
			return t.Month().String()[:3]
		}
		return pad(int(t.Month()), n)
	case 'd':
		return pad(t.Day(), n)
	case 'H':
		return pad(t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'S':
		return pad(t.Nanosecond()/int(time.Millisecond), n)
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'E':
		if n >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'z':
		name, _ := t.Zone()
		return name
	case 'Z':
		return t.Format("-0700")
	case 'X':
		return t.Format([]string{"Z07", "Z0700", "Z07:00"}[n-1])
	}
	return ""
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
