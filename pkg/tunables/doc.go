// Package tunables extracts the top-level settings of configuration files in
// a directory tree.
//
// The scan is informational. It never changes files and never fails because
// a single file could not be parsed; such files are reported as warnings.
//
// Recognised formats, by extension:
//
//	.toml                         go-toml
//	.yaml .yml                    yaml.v3
//	.xml                          etree, children of the root element
//	.json                         top-level object keys
//	.conf .ini .properties .env   key=value lines, "section.key" inside [section]
package tunables
