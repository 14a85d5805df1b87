// Package styles defines the visual styling of cfgmigrate's terminal output.
//
// Styles have semantic names (Success, Error, Unit, Path...) and adaptive
// colors, loaded from the embedded styles.yaml.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
}

// Config is the styles file layout
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

var registry = map[string]lipgloss.Style{}

func init() {
	if err := LoadStylesFromData(embeddedStyles); err != nil {
		registry = map[string]lipgloss.Style{}
	}
}

// LoadStylesFromData replaces the registry with the styles in data
func LoadStylesFromData(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(map[string]lipgloss.Style, len(config.Styles))
	for name, def := range config.Styles {
		styles[name] = buildStyle(def, colors)
	}
	registry = styles
	return nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle().
		Bold(def.Bold).
		Italic(def.Italic).
		Underline(def.Underline)

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginBottom > 0 {
		style = style.MarginBottom(def.MarginBottom)
	}
	return style
}

// Embedded returns the built-in styles file
func Embedded() []byte {
	return embeddedStyles
}

// Get returns the named style, or an empty style for unknown names
func Get(name string) lipgloss.Style {
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text
func Render(name, text string) string {
	return Get(name).Render(text)
}

// Badge returns the pterm style for a run status badge
func Badge(status string) *pterm.Style {
	switch status {
	case "success":
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite, pterm.Bold)
	case "failed":
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case "planned":
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case "nothing-to-do":
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}
