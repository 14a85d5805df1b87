package scan

// Message constants
const (
	MsgShort = "List the settings found in a configuration tree"
	MsgLong  = `Scan walks a directory and lists the top-level keys of every configuration
file it recognises (TOML, YAML, XML, JSON and key=value files). Files that
cannot be parsed are reported as warnings. Nothing is modified.`
	MsgExample = `  cfgmigrate scan /opt/nginx/etc/cfgs
  cfgmigrate scan /backup/nginx --format json`
)
