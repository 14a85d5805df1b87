package services

// Message constants
const (
	MsgShort = "List the services that migrate would stop"
	MsgLong  = `Services locates the application and runs service discovery without
changing anything. With the default "substring" strategy every installed
service whose unit name contains the application name (ignoring case) is
listed; with "manifest" the units named in <app>/etc/cfgmigrate.toml are.`
	MsgExample = `  cfgmigrate services nginx
  cfgmigrate services nginx --format json`
)
