package genconfig

// Message constants
const (
	MsgShort   = "Print the default configuration"
	MsgLong    = "Output the built-in configuration as TOML, to use as a starting point for\n/etc/cfgmigrate/config.toml or $XDG_CONFIG_HOME/cfgmigrate/config.toml."
	MsgExample = `  cfgmigrate gen-config > /etc/cfgmigrate/config.toml`
)
