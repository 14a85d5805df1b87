package migrate

// Message constants
const (
	MsgShort   = "Stop an application's services, copy its configuration, start them again"
	MsgExample = `  # Copy /opt/nginx/etc/cfgs (or the first install root that has nginx) to /backup/nginx
  cfgmigrate migrate nginx --dest /backup/nginx

  # Use an explicit application directory and map file
  cfgmigrate migrate nginx --dir /srv/nginx --dest /backup/nginx --symlink-map /backup/nginx.links.json

  # Show what would happen
  cfgmigrate migrate nginx --dest /backup/nginx --dry-run`

	MsgFlagDest       = "Destination directory for the copied configuration (required)"
	MsgFlagDir        = "Application directory to use instead of searching the install roots"
	MsgFlagSymlinkMap = "File the symlink map is written to (default from config, symlink_info.json)"
	MsgFlagDryRun     = "Discover and print the plan without stopping services or copying"
	MsgFlagFormat     = "Output format: auto, term, text or json"
)
