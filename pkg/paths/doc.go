// Package paths provides centralized path handling for cfgmigrate: where its
// own configuration files live (XDG compliant, via adrg/xdg), the
// conventional install roots applications are searched under, and
// normalisation of user-supplied paths.
package paths
