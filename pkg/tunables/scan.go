package tunables

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// DefaultMaxFileSize bounds the files a Scanner parses when none is given
const DefaultMaxFileSize int64 = 1 << 20

// File lists the settings found in one file
type File struct {
	Path   string   `json:"path"`
	Format string   `json:"format"`
	Keys   []string `json:"keys"`
}

// Warning describes a file that was recognised but not scanned
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Report is the result of a scan. Paths are relative to the scanned root.
type Report struct {
	Root     string    `json:"root"`
	Files    []File    `json:"files"`
	Warnings []Warning `json:"warnings,omitempty"`

	// Ignored counts regular files with an unrecognised extension
	Ignored int `json:"ignored"`
}

// KeyCount is the number of keys over all files
func (r *Report) KeyCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Keys)
	}
	return n
}

// Scanner walks configuration trees
type Scanner struct {
	fs          types.FS
	maxFileSize int64
}

// NewScanner creates a Scanner. A non-positive maxFileSize selects
// DefaultMaxFileSize.
func NewScanner(fs types.FS, maxFileSize int64) *Scanner {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Scanner{fs: fs, maxFileSize: maxFileSize}
}

// Scan walks root in lexical order. Symlinks are not followed. The only
// errors returned are for a root that cannot be read; everything else ends
// up in the report.
func (s *Scanner) Scan(root string) (*Report, error) {
	logger := logging.GetLogger("tunables")
	defer logging.LogOperationStart(logger, "tunables scan")()

	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot scan %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a directory", root)
	}

	report := &Report{Root: root}
	s.walk(root, "", report)

	for _, w := range report.Warnings {
		logger.Warn().Str("path", w.Path).Msg(w.Message)
	}
	logger.Info().
		Int("files", len(report.Files)).
		Int("keys", report.KeyCount()).
		Int("warnings", len(report.Warnings)).
		Msg("Tunables scan finished")
	return report, nil
}

func (s *Scanner) walk(dir, rel string, report *Report) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		report.Warnings = append(report.Warnings, Warning{Path: displayPath(rel), Message: err.Error()})
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		relPath := filepath.Join(rel, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			continue
		case entry.IsDir():
			s.walk(path, relPath, report)
		case entry.Type().IsRegular():
			s.scanFile(path, relPath, report)
		}
	}
}

func (s *Scanner) scanFile(path, rel string, report *Report) {
	format, ok := FormatFor(filepath.Ext(path))
	if !ok {
		report.Ignored++
		return
	}
	warn := func(msg string) {
		report.Warnings = append(report.Warnings, Warning{Path: rel, Message: msg})
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		warn(err.Error())
		return
	}
	if info.Size() > s.maxFileSize {
		warn(fmt.Sprintf("not parsed, %d bytes exceeds the %d byte limit", info.Size(), s.maxFileSize))
		return
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		warn(err.Error())
		return
	}
	keys, err := parsers[format](data)
	if err != nil {
		warn(fmt.Sprintf("invalid %s: %v", format, err))
		return
	}
	report.Files = append(report.Files, File{Path: rel, Format: format, Keys: keys})
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
