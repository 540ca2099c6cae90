// Package ui writes colored status lines for qsu to stderr.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	// ColorAuto detects color support from the terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables all colored output.
	ColorNever
)

// ParseColorMode maps auto|always|never to a ColorMode. Unknown values
// fall back to ColorAuto.
func ParseColorMode(value string) ColorMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

type uiKey struct{}

// UI writes human-facing progress and status messages. Data goes to
// stdout elsewhere; UI output never does.
type UI struct {
	out     *termenv.Output
	profile termenv.Profile
	color   ColorMode
	quiet   bool
}

// New creates a UI on os.Stderr.
func New(mode ColorMode) *UI {
	return NewWriter(os.Stderr, mode)
}

// NewWriter creates a UI on w. NO_COLOR disables colors regardless of mode.
func NewWriter(w io.Writer, mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}

	profile := termenv.Ascii
	switch mode {
	case ColorAlways:
		profile = termenv.ANSI256
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			profile = termenv.NewOutput(f).EnvColorProfile()
		}
	}

	return &UI{
		out:     termenv.NewOutput(w, termenv.WithProfile(profile)),
		profile: profile,
		color:   mode,
	}
}

// Quiet returns a copy of u that drops Heading, Info and Success messages.
// Steps, warnings and errors are still written.
func (u *UI) Quiet(quiet bool) *UI {
	c := *u
	c.quiet = quiet
	return &c
}

// WithUI returns a new context with the UI instance attached.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, uiKey{}, u)
}

// FromContext retrieves the UI from ctx, or a stderr UI in ColorAuto mode.
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(uiKey{}).(*UI); ok {
		return u
	}
	return New(ColorAuto)
}

func (u *UI) line(color termenv.Color, prefix, format string, args []any) {
	msg := prefix + fmt.Sprintf(format, args...)
	s := u.out.String(msg)
	if color != nil {
		s = s.Foreground(color)
	}
	_, _ = fmt.Fprintln(u.out, s)
}

// Heading prints a bold line, e.g. "Jobs of user mmb28".
func (u *UI) Heading(format string, args ...any) {
	if u.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if u.profile == termenv.Ascii {
		_, _ = fmt.Fprintln(u.out, msg)
		return
	}
	_, _ = fmt.Fprintln(u.out, u.out.String(msg).Bold())
}

// Step prints the line for an external command about to run. Quiet mode
// does not drop it: every command is announced before it runs.
func (u *UI) Step(format string, args ...any) {
	u.line(termenv.ANSICyan, "", format, args)
}

// Success prints a success message in green.
func (u *UI) Success(format string, args ...any) {
	if u.quiet {
		return
	}
	u.line(termenv.ANSIGreen, "✓ ", format, args)
}

// Info prints an informational message in blue.
func (u *UI) Info(format string, args ...any) {
	if u.quiet {
		return
	}
	u.line(termenv.ANSIBlue, "", format, args)
}

// Warning prints a warning message in yellow.
func (u *UI) Warning(format string, args ...any) {
	u.line(termenv.ANSIYellow, "⚠ ", format, args)
}

// Error prints an error message in red.
func (u *UI) Error(format string, args ...any) {
	u.line(termenv.ANSIRed, "✗ ", format, args)
}

// Writer returns the underlying writer.
func (u *UI) Writer() io.Writer {
	return u.out
}
