// Package discovery finds an application's configuration tree and the
// systemd services that belong to it.
//
// Service discovery sits behind the ServiceDiscoverer interface so the
// migration workflow does not care whether units were matched by name
// (SubstringDiscoverer) or listed explicitly by the application
// (ManifestDiscoverer).
package discovery
