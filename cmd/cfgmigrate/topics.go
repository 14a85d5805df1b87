package cfgmigrate

import (
	"embed"
	"io/fs"
)

//go:embed topics
var embeddedTopics embed.FS

// TopicsFS returns the built-in help topics
func TopicsFS() fs.FS {
	sub, err := fs.Sub(embeddedTopics, "topics")
	if err != nil {
		panic(err)
	}
	return sub
}
