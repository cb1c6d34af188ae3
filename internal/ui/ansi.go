package ui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// Printer writes themed CLI output. Color support comes from the terminal
// behind out; writers that are not terminals get plain text.
type Printer struct {
	out    *termenv.Output
	errOut *termenv.Output
	theme  Theme
}

type PrinterOptions struct {
	Theme   model.Theme
	NoColor bool
	// Profile overrides detection when non-nil.
	Profile *termenv.Profile
}

func NewPrinter(out, errOut io.Writer, opts PrinterOptions) *Printer {
	var oo []termenv.OutputOption
	switch {
	case opts.NoColor:
		oo = append(oo, termenv.WithProfile(termenv.Ascii))
	case opts.Profile != nil:
		oo = append(oo, termenv.WithProfile(*opts.Profile))
	}
	p := &Printer{
		out:    termenv.NewOutput(out, oo...),
		errOut: termenv.NewOutput(errOut, oo...),
		theme:  ThemeFor(opts.Theme),
	}
	if opts.NoColor {
		p.theme = Mono(opts.Theme)
	}
	return p
}

func (p *Printer) Theme() Theme { return p.theme }

// C colors s with color, or returns it unchanged when color is off.
func (p *Printer) C(color, s string) string {
	if color == "" || p.out.Profile == termenv.Ascii {
		return s
	}
	return p.out.String(s).Foreground(p.out.Color(color)).String()
}

// Bold renders s in bold when color is on.
func (p *Printer) Bold(s string) string {
	if p.out.Profile == termenv.Ascii {
		return s
	}
	return p.out.String(s).Bold().String()
}

func (p *Printer) Println(a ...any) { fmt.Fprintln(p.out, a...) }

func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.out, format, a...) }

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.out, p.C(p.theme.Success, symbol(p.theme.SymDone, "✔")+" "+msg))
}

func (p *Printer) Fail(msg string) {
	c := p.theme.Error
	s := "✖ " + msg
	if p.errOut.Profile != termenv.Ascii && c != "" {
		s = p.errOut.String(s).Foreground(p.errOut.Color(c)).String()
	}
	fmt.Fprintln(p.errOut, s)
}

func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.errOut, msg)
}

func symbol(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
