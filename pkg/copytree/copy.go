package copytree

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/errors"
	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
	"github.com/rs/zerolog"
)

// Stats counts what a copy did
type Stats struct {
	Dirs     int   `json:"dirs"`
	Files    int   `json:"files"`
	Symlinks int   `json:"symlinks"`
	Skipped  int   `json:"skipped"`
	Bytes    int64 `json:"bytes"`
}

// Copier copies trees through a types.FS
type Copier struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates a Copier
func New(fs types.FS) *Copier {
	return &Copier{fs: fs, logger: logging.GetLogger("copytree")}
}

// CopyTree walks srcRoot and mirrors it under dstRoot.
//
// Directories are created (existing ones are fine), regular files are copied
// with their mode and timestamps, and anything already at a destination path
// is replaced. A symlink is recorded in the returned map under its path
// relative to srcRoot, then its resolved target is copied in its place: a
// file's contents, or a directory's whole subtree. Links that resolve to
// neither are recorded but not copied.
//
// The first filesystem error aborts the walk with an ErrCopy error, as does
// cancelling ctx (checked before each entry). What was copied so far stays in
// place, and the partial map is returned with it.
func (c *Copier) CopyTree(ctx context.Context, srcRoot, dstRoot string) (types.SymlinkMap, Stats, error) {
	links := types.SymlinkMap{}
	var stats Stats

	done := logging.LogOperationStart(c.logger, "copy-tree")
	defer done()

	info, err := c.fs.Stat(srcRoot)
	if err != nil {
		return links, stats, errors.Wrapf(err, errors.ErrCopy, "cannot read source %s", srcRoot)
	}
	if !info.IsDir() {
		return links, stats, errors.Newf(errors.ErrCopy, "source %s is not a directory", srcRoot)
	}

	if inside(dstRoot, srcRoot) {
		return links, stats, errors.Newf(errors.ErrCopy, "destination %s is inside source %s", dstRoot, srcRoot)
	}

	w := &walker{Copier: c, ctx: ctx, srcRoot: srcRoot, dstRoot: dstRoot, links: links, stats: &stats}
	if err := w.copyDir(srcRoot, dstRoot, info, true, map[string]bool{}); err != nil {
		return links, stats, err
	}

	c.logger.Info().
		Str("source", srcRoot).
		Str("destination", dstRoot).
		Int("files", stats.Files).
		Int("dirs", stats.Dirs).
		Int("symlinks", stats.Symlinks).
		Int("skipped", stats.Skipped).
		Msg("Copied configuration tree")

	return links, stats, nil
}

type walker struct {
	*Copier
	ctx     context.Context
	srcRoot string
	dstRoot string
	links   types.SymlinkMap
	stats   *Stats
}

// copyDir mirrors src into dst. With record set, symlinks are added to the
// map; inside a dereferenced directory link they are only followed, since
// their paths would not be relative to the source root.
func (w *walker) copyDir(src, dst string, info fs.FileInfo, record bool, visiting map[string]bool) error {
	realPath, err := w.fs.EvalSymlinks(src)
	if err != nil {
		return w.copyErr(err, src, "cannot resolve directory")
	}
	if visiting[realPath] {
		w.logger.Warn().Str("path", src).Str("resolved", realPath).Msg("Symlink loop, not descending again")
		w.stats.Skipped++
		return nil
	}
	visiting[realPath] = true
	defer delete(visiting, realPath)

	// The destination root itself is used as given, even if it is a link.
	if dst != w.dstRoot {
		if err := w.prepare(dst, true); err != nil {
			return err
		}
	}
	if err := w.fs.MkdirAll(dst, 0700); err != nil {
		return w.copyErr(err, dst, "cannot create directory")
	}
	w.stats.Dirs++

	entries, err := w.fs.ReadDir(src)
	if err != nil {
		return w.copyErr(err, src, "cannot list directory")
	}

	for _, entry := range entries {
		if err := w.ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCopy, "copy interrupted").WithDetail("path", src)
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		entryInfo, err := w.fs.Lstat(srcPath)
		if err != nil {
			return w.copyErr(err, srcPath, "cannot stat")
		}

		switch mode := entryInfo.Mode(); {
		case mode&os.ModeSymlink != 0:
			if err := w.copyLink(srcPath, dstPath, record, visiting); err != nil {
				return err
			}
		case mode.IsDir():
			if err := w.copyDir(srcPath, dstPath, entryInfo, record, visiting); err != nil {
				return err
			}
		case mode.IsRegular():
			if err := w.copyFile(srcPath, dstPath, entryInfo); err != nil {
				return err
			}
		default:
			w.logger.Warn().Str("path", srcPath).Str("mode", mode.String()).Msg("Skipping special file")
			w.stats.Skipped++
		}
	}

	// Applied last so a read-only source directory can still be filled.
	if err := w.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return w.copyErr(err, dst, "cannot set mode")
	}
	if err := w.fs.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return w.copyErr(err, dst, "cannot set times")
	}
	return nil
}

func (w *walker) copyLink(src, dst string, record bool, visiting map[string]bool) error {
	if record {
		target, err := w.fs.Readlink(src)
		if err != nil {
			return w.copyErr(err, src, "cannot read symlink")
		}
		rel, err := filepath.Rel(w.srcRoot, src)
		if err != nil {
			return w.copyErr(err, src, "cannot compute relative path")
		}
		w.links[rel] = target
		w.stats.Symlinks++
		w.logger.Debug().Str("path", rel).Str("target", target).Msg("Recorded symlink")
	}

	resolved, err := w.fs.Stat(src)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", src).Msg("Broken symlink, nothing copied")
		w.stats.Skipped++
		return nil
	}

	switch {
	case resolved.IsDir():
		return w.copyDir(src, dst, resolved, false, visiting)
	case resolved.Mode().IsRegular():
		return w.copyFile(src, dst, resolved)
	default:
		w.logger.Warn().Str("path", src).Str("mode", resolved.Mode().String()).Msg("Symlink to special file, nothing copied")
		w.stats.Skipped++
		return nil
	}
}

// copyFile copies src's content to dst, then mode and timestamps from info
func (w *walker) copyFile(src, dst string, info fs.FileInfo) error {
	if err := w.prepare(dst, false); err != nil {
		return err
	}

	in, err := w.fs.Open(src)
	if err != nil {
		return w.copyErr(err, src, "cannot open")
	}
	defer in.Close()

	out, err := w.fs.Create(dst, info.Mode().Perm())
	if err != nil {
		return w.copyErr(err, dst, "cannot create")
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return w.copyErr(err, dst, "cannot write")
	}

	// Create only applies the mode to new files.
	if err := w.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return w.copyErr(err, dst, "cannot set mode")
	}
	if err := w.fs.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return w.copyErr(err, dst, "cannot set times")
	}

	w.stats.Files++
	w.stats.Bytes += n
	return nil
}

// prepare clears whatever sits at dst that would get in the way: any
// symlink (writing through it would land elsewhere), a directory where a
// file goes, or a file where a directory goes
func (w *walker) prepare(dst string, wantDir bool) error {
	info, err := w.fs.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return w.copyErr(err, dst, "cannot stat destination")
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		err = w.fs.Remove(dst)
	case wantDir && !info.IsDir():
		err = w.fs.Remove(dst)
	case !wantDir && info.IsDir():
		err = w.fs.RemoveAll(dst)
	default:
		return nil
	}
	if err != nil {
		return w.copyErr(err, dst, "cannot replace existing destination")
	}
	return nil
}

func (w *walker) copyErr(err error, path, msg string) error {
	rel, relErr := filepath.Rel(w.srcRoot, path)
	if relErr != nil || !inside(path, w.srcRoot) {
		rel = path
	}
	return errors.Wrapf(err, errors.ErrCopy, "%s %s", msg, path).WithDetail("path", rel)
}

// inside reports whether path is root or lies below it
func inside(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
