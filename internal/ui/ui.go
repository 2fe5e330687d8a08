// Package ui prints user-facing status lines with ANSI color where the
// terminal supports it. Structured logs go through zerolog instead; this is
// only the human channel.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	errOutput := termenv.NewOutput(err)

	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    errOutput,
		ColorEnabled: colorEnabled(output, mode, disableColor),
	}
}

func colorEnabled(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

// ANSI palette indexes: red, yellow, blue, green.
const (
	colorError   = "1"
	colorWarning = "3"
	colorInfo    = "4"
	colorSuccess = "2"
)

// Errorf writes a red line to stderr.
func (u *UI) Errorf(format string, args ...any) {
	u.paint(u.Err, u.ErrOutput, colorError, format, args...)
}

// Warnf writes a yellow line to stderr.
func (u *UI) Warnf(format string, args ...any) {
	u.paint(u.Err, u.ErrOutput, colorWarning, format, args...)
}

// Infof writes a blue line to stdout.
func (u *UI) Infof(format string, args ...any) {
	u.paint(u.Out, u.Output, colorInfo, format, args...)
}

// Successf writes a green line to stderr, where scan summaries go so stdout
// stays parseable.
func (u *UI) Successf(format string, args ...any) {
	u.paint(u.Err, u.ErrOutput, colorSuccess, format, args...)
}

func (u *UI) paint(w io.Writer, output *termenv.Output, color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = output.String(msg).Foreground(output.Color(color)).String()
	}
	fmt.Fprintln(w, msg)
}

func NormalizeColorMode(value string) ColorMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ColorAlways):
		return ColorAlways
	case string(ColorNever):
		return ColorNever
	default:
		return ColorAuto
	}
}
