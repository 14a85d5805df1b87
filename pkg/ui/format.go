package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results and progress are written
type Format int

const (
	// FormatAuto picks terminal or text output from the destination
	FormatAuto Format = iota
	// FormatTerminal renders the run summary through glamour, with pterm
	// badges on progress lines
	FormatTerminal
	// FormatText prints the summary markdown and bracketed progress lines
	FormatText
	// FormatJSON writes only the final result document
	FormatJSON
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
}

// aliases accepted by ParseFormat besides the canonical names
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat reads a --format value or output.format setting
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
}

// DetectFormat chooses between terminal and text output for out. NO_COLOR,
// pipes, redirects to a file (as under a systemd unit or cron) and
// colourless terminals all get text.
func DetectFormat(out *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := out.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve replaces FormatAuto with the format detected for output. Writers
// that are not files are treated as terminals.
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatTerminal
}
