package topics

import "strings"

// Renderer turns a topic's raw content into what the help command prints.
// ext is the topic file's extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as written, ending in exactly one newline
type PlainRenderer struct{}

// Render implements Renderer
func (r *PlainRenderer) Render(content string, ext string) string {
	return strings.TrimRight(content, "\n\t ") + "\n"
}
