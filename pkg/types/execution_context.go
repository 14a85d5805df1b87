package types

import (
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultSymlinkMapFile is the symlink map file name used when none is given
const DefaultSymlinkMapFile = "symlink_info.json"

// ExecutionContext carries everything a migration step needs to know about
// the current invocation. It is created once per run and passed explicitly
// to every operation instead of relying on the working directory or
// process-wide state.
type ExecutionContext struct {
	// RunID identifies this invocation in logs
	RunID string

	// AppName is the application whose configuration is migrated
	AppName string

	// ExplicitDir, when set, is used as the application root instead of
	// searching the install roots
	ExplicitDir string

	// AppRoot is the resolved application directory (filled by discovery)
	AppRoot string

	// ConfigRoot is AppRoot/etc/cfgs (filled by discovery)
	ConfigRoot string

	// DestRoot is where the configuration tree is copied to
	DestRoot string

	// SymlinkMapPath is where the symlink map is persisted
	SymlinkMapPath string

	// Privileged is the result of the privilege check
	Privileged bool

	// DryRun reports the plan without stopping services or copying
	DryRun bool
}

// NewExecutionContext creates a context for migrating appName into destRoot.
// An empty mapPath selects DefaultSymlinkMapFile.
func NewExecutionContext(appName, destRoot, mapPath string) *ExecutionContext {
	if mapPath == "" {
		mapPath = DefaultSymlinkMapFile
	}
	return &ExecutionContext{
		RunID:          uuid.NewString(),
		AppName:        appName,
		DestRoot:       filepath.Clean(destRoot),
		SymlinkMapPath: mapPath,
	}
}

// WithExplicitDir sets the application root override
func (c *ExecutionContext) WithExplicitDir(dir string) *ExecutionContext {
	c.ExplicitDir = dir
	return c
}

// WithDryRun toggles dry-run mode
func (c *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	c.DryRun = dryRun
	return c
}
