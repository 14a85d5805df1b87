package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Progress prints one line per workflow step and service action
type Progress struct {
	output io.Writer
	format Format
}

// NewProgress creates a progress printer. JSON output prints no progress so
// that the final document is the only thing written.
func NewProgress(format Format, output io.Writer) *Progress {
	return &Progress{output: output, format: Resolve(format, output)}
}

// Step implements migrate.Progress
func (p *Progress) Step(state migrate.State, message string) {
	switch p.format {
	case FormatTerminal:
		fmt.Fprintf(p.output, "%s %s\n", styles.Render("State", string(state)), message)
	case FormatText:
		fmt.Fprintf(p.output, "[%s] %s\n", state, message)
	}
}

// Service implements migrate.Progress
func (p *Progress) Service(action, unit string, err error) {
	switch p.format {
	case FormatTerminal:
		if err != nil {
			fmt.Fprintf(p.output, "  %s %s %s: %s\n", pterm.Error.Prefix.Text, action, styles.Render("Unit", unit), styles.Render("Error", err.Error()))
			return
		}
		fmt.Fprintf(p.output, "  %s %s %s\n", pterm.Success.Prefix.Text, action, styles.Render("Unit", unit))
	case FormatText:
		if err != nil {
			fmt.Fprintf(p.output, "  %s %s: FAILED: %v\n", action, unit, err)
			return
		}
		fmt.Fprintf(p.output, "  %s %s: ok\n", action, unit)
	}
}

var _ migrate.Progress = (*Progress)(nil)
