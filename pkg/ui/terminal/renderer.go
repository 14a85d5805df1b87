// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/display"
	"github.com/arthur-debert/cfgmigrate/pkg/ui/styles"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

// Renderer renders summaries as markdown through glamour, with pterm badges
// and lipgloss styles around them
type Renderer struct {
	output   io.Writer
	markdown *glamour.TermRenderer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{output: w, markdown: md}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	md, ok := display.Markdown(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}

	if res, ok := result.(*migrate.Result); ok {
		status := string(res.Status)
		if _, err := fmt.Fprintln(r.output, styles.Badge(status).Sprintf(" %s ", status)); err != nil {
			return err
		}
	}

	rendered, err := r.markdown.Render(md)
	if err != nil {
		rendered = md
	}
	_, err = fmt.Fprint(r.output, rendered)
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %s\n", pterm.Error.Prefix.Text, styles.Render("Error", err.Error()))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintf(r.output, "%s %s\n", pterm.Info.Prefix.Text, msg)
	return err
}
