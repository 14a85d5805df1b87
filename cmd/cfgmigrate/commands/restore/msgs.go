package restore

// Message constants
const (
	MsgShort = "Recreate the symlinks recorded in a symlink map"
	MsgLong  = `Restore replays a symlink map written by migrate onto a destination tree.
Each recorded path is replaced by a symlink to its recorded target. Entries
that cannot be restored are reported and skipped. A missing map file is not
an error.

No service is stopped or started.`
	MsgExample = `  cfgmigrate restore --dest /backup/nginx
  cfgmigrate restore --dest /backup/nginx --symlink-map /backup/nginx.links.json`

	MsgFlagDest       = "Destination tree to restore symlinks into (required)"
	MsgFlagSymlinkMap = "Symlink map to replay (default from config, symlink_info.json)"
)
