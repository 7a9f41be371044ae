package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"resx-hooks/internal/check"
	"resx-hooks/internal/config"
)

// headings and failure lines per check, as printed in text mode.
var sections = map[check.Name]struct{ heading, failed string }{
	check.KeysConsistency: {"Checking keys consistency...", "Keys consistency check failed."},
	check.EmptyValues:     {"Checking for empty values...", "Empty values check failed."},
	check.Placeholders:    {"Checking placeholders...", "Placeholders check failed."},
}

// Printer renders check results. Findings go to the output writer, advisory
// warnings to the logger.
type Printer struct {
	out    io.Writer
	logger zerolog.Logger
	format string

	heading func(a ...any) string
	bad     func(a ...any) string
	good    func(a ...any) string
	key     func(a ...any) string
}

// NewPrinter creates a printer. format is config.FormatText or
// config.FormatJSON; colour applies to text output only.
func NewPrinter(out io.Writer, logger zerolog.Logger, format string, useColor bool) *Printer {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Printer{
		out:     out,
		logger:  logger,
		format:  format,
		heading: mk(color.Bold, color.FgCyan),
		bad:     mk(color.FgRed),
		good:    mk(color.Bold, color.FgGreen),
		key:     mk(color.FgYellow),
	}
}

// NoFiles reports that discovery resolved nothing to check.
func (p *Printer) NoFiles() error {
	if p.format == config.FormatJSON {
		return p.writeJSON(&check.Result{Files: []string{}})
	}
	_, err := fmt.Fprintln(p.out, "No resource files found to parse.")
	return err
}

// Print renders res. When every check ran, text output is framed like a
// full run with a final success line.
func (p *Printer) Print(res *check.Result) error {
	for _, o := range res.Outcomes {
		for _, w := range o.Warnings {
			p.logger.Warn().Str("check", string(o.Check)).Msg(w)
		}
	}

	if p.format == config.FormatJSON {
		return p.writeJSON(res)
	}

	var b strings.Builder
	all := len(res.Outcomes) == len(check.All)
	if all {
		b.WriteString("Running all resource checks...\n")
	}
	for _, o := range res.Outcomes {
		sec := sections[o.Check]
		if all {
			b.WriteString("\n" + p.heading(sec.heading) + "\n")
		}
		p.outcome(&b, o)
		if all && o.Failed() {
			b.WriteString(p.bad(sec.failed) + "\n")
		}
	}
	if all && !res.Failed() {
		b.WriteString("\n" + p.good("All checks passed successfully!") + "\n")
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *Printer) outcome(b *strings.Builder, o check.Outcome) {
	for _, fk := range o.MissingKeys {
		fmt.Fprintf(b, "File %s is missing keys: %s\n", fk.File, p.keys(fk.Keys))
	}
	for _, fk := range o.EmptyValues {
		fmt.Fprintf(b, "File %s has empty values for keys: %s\n", fk.File, p.keys(fk.Keys))
	}
	for _, fm := range o.Placeholders {
		fmt.Fprintf(b, "Inconsistent placeholders in %s:\n", fm.File)
		for _, m := range fm.Mismatches {
			fmt.Fprintf(b, "  Key '%s':\n", p.key(m.Key))
			fmt.Fprintf(b, "    Expected: %s\n", list(m.Expected))
			fmt.Fprintf(b, "    Found: %s\n", p.bad(list(m.Found)))
		}
	}
}

func (p *Printer) keys(keys []string) string {
	colored := make([]string, len(keys))
	for i, k := range keys {
		colored[i] = p.key(k)
	}
	return strings.Join(colored, ", ")
}

func list(ids []string) string {
	return "[" + strings.Join(ids, ", ") + "]"
}

type jsonResult struct {
	Failed bool `json:"failed"`
	*check.Result
}

func (p *Printer) writeJSON(res *check.Result) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonResult{Failed: res.Failed(), Result: res}); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
