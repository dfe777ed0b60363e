package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// palette styles terminal output for one color profile. The Ascii
// profile leaves text unstyled.
type palette struct {
	p termenv.Profile
}

func (c palette) style(text, color string) termenv.Style {
	st := c.p.String(text)
	if color != "" {
		st = st.Foreground(c.p.Color(color))
	}
	return st
}

func (c palette) red(text string) string   { return c.style(text, "1").Bold().String() }
func (c palette) cyan(text string) string  { return c.style(text, "6").String() }
func (c palette) white(text string) string { return c.style(text, "7").String() }
func (c palette) gray(text string) string  { return c.style(text, "8").String() }
func (c palette) bold(text string) string  { return c.style(text, "").Bold().String() }

// Format returns the error for terminal display without colors.
func (e *Error) Format() string {
	return e.FormatProfile(termenv.Ascii)
}

// FormatProfile returns the error for terminal display, colored for p.
func (e *Error) FormatProfile(p termenv.Profile) string {
	c := palette{p: p}
	var b strings.Builder

	// Header line
	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(c.red("ERROR "))
		b.WriteString(c.bold(e.Code + ": "))
		b.WriteString(c.white(e.Message))
	} else {
		b.WriteString(c.red("ERROR: "))
		b.WriteString(c.white(e.Message))
	}
	b.WriteString("\n\n")

	if e.Source != "" {
		b.WriteString("  ")
		b.WriteString(c.cyan(e.Source))
		b.WriteString("\n\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(c.gray("Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	// Detail
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Suggestion
	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(c.cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder

	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Error())

	return b.String()
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	var b strings.Builder
	b.WriteString("{")

	if e.Code != "" {
		b.WriteString(fmt.Sprintf(`"code":%q,`, e.Code))
	}
	b.WriteString(fmt.Sprintf(`"category":%q,`, e.Category))
	b.WriteString(fmt.Sprintf(`"message":%q`, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(`,"detail":%q`, e.Detail))
	}
	if e.Source != "" {
		b.WriteString(fmt.Sprintf(`,"source":%q`, e.Source))
	}
	if e.Wrapped != nil {
		b.WriteString(fmt.Sprintf(`,"cause":%q`, e.Wrapped.Error()))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf(`,"suggestion":%q`, e.Suggestion))
	}

	b.WriteString("}")
	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// Fprint writes a formatted error to w, colored for w's color profile.
// A *termenv.Output is used as is; any other writer is probed with
// termenv, so pipes and buffers get plain text.
func Fprint(w io.Writer, err error) {
	out, ok := w.(*termenv.Output)
	if !ok {
		out = termenv.NewOutput(w)
	}
	if e, ok := err.(*Error); ok {
		fmt.Fprint(out, e.FormatProfile(out.Profile))
		return
	}
	c := palette{p: out.Profile}
	fmt.Fprintf(out, "\n%s %s\n\n", c.red("ERROR:"), err.Error())
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
