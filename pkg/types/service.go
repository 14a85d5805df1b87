package types

import "strings"

// Service is a systemd service unit as reported by the service manager
type Service struct {
	// Name is the full unit name, e.g. "nginx.service"
	Name string `json:"name"`

	// EnabledState is the unit file state (enabled, disabled, static, ...)
	EnabledState string `json:"enabledState,omitempty"`

	// ActiveState is the runtime state (active, inactive, failed, ...)
	ActiveState string `json:"activeState,omitempty"`
}

// IsActive reports whether the unit is currently running
func (s Service) IsActive() bool {
	return s.ActiveState == "active"
}

// ServiceNames returns the unit names in order
func ServiceNames(services []Service) []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return names
}

// IsTemplateUnit reports whether name is an uninstantiated template such as
// "getty@.service", which cannot be started or stopped directly
func IsTemplateUnit(name string) bool {
	return strings.Contains(name, "@.")
}
