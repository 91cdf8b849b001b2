package output

import (
	"github.com/fatih/color"
)

// Role names an element of the text output that has its own color.
type Role int

const (
	RoleMethod Role = iota
	RoleURL
	RoleStatusOK
	RoleStatusWarn
	RoleStatusError
	RoleHeaderKey
	RoleHeaderValue
	RoleTiming
	RoleSuccess
	RoleError
	RoleInfo

	roleCount
)

var palette = [roleCount][]color.Attribute{
	RoleMethod:      {color.FgBlue, color.Bold},
	RoleURL:         {color.FgCyan},
	RoleStatusOK:    {color.FgGreen, color.Bold},
	RoleStatusWarn:  {color.FgYellow, color.Bold},
	RoleStatusError: {color.FgRed, color.Bold},
	RoleHeaderKey:   {color.FgYellow},
	RoleHeaderValue: {color.FgWhite},
	RoleTiming:      {color.FgHiBlack},
	RoleSuccess:     {color.FgGreen},
	RoleError:       {color.FgRed},
	RoleInfo:        {color.FgBlue},
}

// ColorScheme maps output roles to terminal colors.
type ColorScheme struct {
	colors [roleCount]*color.Color
}

// NewColorScheme builds the palette. When enabled is false every role
// prints its input unchanged; otherwise color follows fatih/color's
// terminal detection.
func NewColorScheme(enabled bool) *ColorScheme {
	s := &ColorScheme{}
	for role, attrs := range palette {
		c := color.New(attrs...)
		if !enabled {
			c.DisableColor()
		}
		s.colors[role] = c
	}
	return s
}

// Sprint renders a in the color of role.
func (s *ColorScheme) Sprint(role Role, a ...interface{}) string {
	return s.colors[role].Sprint(a...)
}

// Sprintf renders a formatted string in the color of role.
func (s *ColorScheme) Sprintf(role Role, format string, a ...interface{}) string {
	return s.colors[role].Sprintf(format, a...)
}

// StatusRole picks the status color for an HTTP status code: 2xx is OK,
// 3xx a warning and anything else an error.
func StatusRole(code int) Role {
	switch {
	case code >= 200 && code < 300:
		return RoleStatusOK
	case code >= 300 && code < 400:
		return RoleStatusWarn
	}
	return RoleStatusError
}

// Icon is a status symbol printed ahead of a summary line.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconError   Icon = "✗"
	IconInfo    Icon = "ℹ"
)

// Render returns the icon in its color from s.
func (i Icon) Render(s *ColorScheme) string {
	switch i {
	case IconSuccess:
		return s.Sprint(RoleSuccess, string(i))
	case IconError:
		return s.Sprint(RoleError, string(i))
	}
	return s.Sprint(RoleInfo, string(i))
}
