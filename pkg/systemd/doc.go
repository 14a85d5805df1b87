// Package systemd controls systemd service units.
//
// Two backends implement Manager: Systemctl shells out to systemctl and
// parses its plain output, DBus talks to the system manager directly through
// coreos/go-systemd. StopAll and StartAll drive a service set in list order
// with the failure policies the migration workflow relies on.
package systemd
