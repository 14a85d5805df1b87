package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour. Other formats are
// returned unchanged.
type GlamourRenderer struct {
	// Style is a glamour style name ("dark", "light", "notty") or a path to a
	// style file. Empty or "auto" detects the terminal background.
	Style string

	// Width wraps output at this many columns; 0 keeps glamour's default
	Width int
}

// NewGlamourRenderer creates a markdown renderer with automatic styling
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// Render converts markdown to styled terminal output, falling back to the
// raw content when glamour fails
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
