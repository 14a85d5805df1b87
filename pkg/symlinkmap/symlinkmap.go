// Package symlinkmap persists symlink maps and replays them onto a copied
// tree.
package symlinkmap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// Save writes m to path as JSON, replacing any existing file
func Save(fs types.FS, m types.SymlinkMap, path string) error {
	if m == nil {
		m = types.SymlinkMap{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrSymlinkMap, "failed to encode symlink map")
	}
	data = append(data, '\n')

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkMap, "failed to create directory for %s", path)
	}
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkMap, "failed to write symlink map %s", path)
	}

	logger := logging.GetLogger("symlinkmap")
	logger.Debug().
		Str("path", path).
		Int("entries", len(m)).
		Msg("Saved symlink map")
	return nil
}

// Load reads a symlink map. A missing file is reported with ok=false and no
// error.
func Load(fs types.FS, path string) (m types.SymlinkMap, ok bool, err error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrSymlinkMap, "failed to read symlink map %s", path)
	}

	m = types.SymlinkMap{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrSymlinkMap, "symlink map %s is malformed", path)
	}
	return m, true, nil
}

// Report describes a Restore run
type Report struct {
	// MapFound is false when there was no map file to replay
	MapFound bool `json:"mapFound"`

	// Restored lists the relative paths recreated as symlinks
	Restored []string `json:"restored"`

	// Failed holds one ErrSymlinkRestore error per entry that could not be
	// recreated
	Failed []error `json:"-"`
}

// FailedPaths returns the relative paths of failed entries
func (r Report) FailedPaths() []string {
	paths := make([]string, 0, len(r.Failed))
	for _, err := range r.Failed {
		if p, ok := errors.GetErrorDetails(err)["path"].(string); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// Restore recreates every symlink recorded in the map file at mapPath under
// destRoot. Each entry's parent directory is created, whatever occupies the
// entry's path is removed, and a link to the recorded target is created
// verbatim. A failing entry is logged and recorded in the report without
// stopping the others. A missing map file is a no-op; an unreadable or
// malformed one is an ErrSymlinkMap error.
func Restore(fs types.FS, destRoot, mapPath string) (Report, error) {
	logger := logging.GetLogger("symlinkmap.restore")
	var report Report

	m, ok, err := Load(fs, mapPath)
	if err != nil {
		return report, err
	}
	if !ok {
		logger.Info().Str("map", mapPath).Msg("No symlink map, nothing to restore")
		return report, nil
	}
	report.MapFound = true

	for _, rel := range m.Paths() {
		target := m[rel]
		if err := restoreOne(fs, destRoot, rel, target); err != nil {
			logger.Warn().Err(err).Str("path", rel).Str("target", target).Msg("Failed to restore symlink")
			report.Failed = append(report.Failed, err)
			continue
		}
		logger.Debug().Str("path", rel).Str("target", target).Msg("Restored symlink")
		report.Restored = append(report.Restored, rel)
	}

	logger.Info().
		Int("restored", len(report.Restored)).
		Int("failed", len(report.Failed)).
		Msg("Symlink restoration finished")
	return report, nil
}

func restoreOne(fs types.FS, destRoot, rel, target string) error {
	fail := func(err error, msg string) error {
		return errors.Wrapf(err, errors.ErrSymlinkRestore, "%s for %s", msg, rel).
			WithDetail("path", rel).
			WithDetail("target", target)
	}

	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fail(errors.New(errors.ErrInvalidInput, "path escapes destination"), "refusing entry")
	}
	path := filepath.Join(destRoot, clean)

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fail(err, "cannot create parent directory")
	}

	if info, err := fs.Lstat(path); err == nil {
		if info.IsDir() {
			err = fs.RemoveAll(path)
		} else {
			err = fs.Remove(path)
		}
		if err != nil {
			return fail(err, "cannot remove existing entry")
		}
	} else if !os.IsNotExist(err) {
		return fail(err, "cannot stat existing entry")
	}

	if err := fs.Symlink(target, path); err != nil {
		return fail(err, "cannot create symlink")
	}
	return nil
}
