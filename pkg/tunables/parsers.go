package tunables

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Parser returns the top-level keys of a file's content
type Parser func(data []byte) ([]string, error)

// Format names
const (
	FormatTOML     = "toml"
	FormatYAML     = "yaml"
	FormatXML      = "xml"
	FormatJSON     = "json"
	FormatKeyValue = "keyvalue"
)

var parsers = map[string]Parser{
	FormatTOML:     parseTOML,
	FormatYAML:     parseYAML,
	FormatXML:      parseXML,
	FormatJSON:     parseJSON,
	FormatKeyValue: parseKeyValue,
}

var extensions = map[string]string{
	".toml":       FormatTOML,
	".yaml":       FormatYAML,
	".yml":        FormatYAML,
	".xml":        FormatXML,
	".json":       FormatJSON,
	".conf":       FormatKeyValue,
	".ini":        FormatKeyValue,
	".properties": FormatKeyValue,
	".env":        FormatKeyValue,
}

// FormatFor returns the format registered for a file extension, including
// the leading dot. The lookup is case-insensitive.
func FormatFor(ext string) (string, bool) {
	f, ok := extensions[strings.ToLower(ext)]
	return f, ok
}

// Extensions lists the recognised extensions, sorted
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for e := range extensions {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

func parseTOML(data []byte) ([]string, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return mapKeys(doc), nil
}

func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, nil // empty document
	}
	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level value is not a mapping")
	}

	var keys []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	return uniqueSorted(keys), nil
}

func parseXML(data []byte) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}

	var keys []string
	for _, child := range root.ChildElements() {
		keys = append(keys, child.FullTag())
	}
	return uniqueSorted(keys), nil
}

func parseJSON(data []byte) ([]string, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	return mapKeys(obj), nil
}

// parseKeyValue reads ini-style files. Lines without "=" (or ":" for
// properties files) are ignored, so formats like nginx.conf yield no keys
// rather than a warning.
func parseKeyValue(data []byte) ([]string, error) {
	var keys []string
	section := ""

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		idx := strings.IndexAny(line, "=:")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		if section != "" {
			key = section + "." + key
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return uniqueSorted(keys), nil
}

func mapKeys(m map[string]interface{}) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueSorted(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
