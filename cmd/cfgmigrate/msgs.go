package cfgmigrate

import (
	_ "embed"
	"strings"
)

// Short messages
const (
	MsgRootShort       = "Migrate an application's configuration tree with its services quiesced"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Read configuration from this TOML file as well"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrLoadConfig = "failed to load configuration: %w"

	// Version output
	MsgVersionFormat = "cfgmigrate version %s\n  commit: %s\n  built:  %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/migrate-long.txt
	msgMigrateLongRaw string
	MsgMigrateLong    = strings.TrimSpace(msgMigrateLongRaw)
)
