package migrate

import "os"

// Privileges decides whether the process may stop and start services
type Privileges interface {
	IsPrivileged() bool
}

// PrivilegesFunc adapts a function to Privileges
type PrivilegesFunc func() bool

// IsPrivileged implements Privileges
func (f PrivilegesFunc) IsPrivileged() bool { return f() }

// EffectiveRoot reports whether the effective user is root
var EffectiveRoot Privileges = PrivilegesFunc(func() bool { return os.Geteuid() == 0 })
