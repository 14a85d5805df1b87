// Package display turns command results into markdown summaries. The text
// renderer prints them as they are; the terminal renderer passes them
// through glamour.
package display

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/cfgmigrate/pkg/migrate"
	"github.com/arthur-debert/cfgmigrate/pkg/symlinkmap"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// ServiceList is the result of the services command
type ServiceList struct {
	App      string          `json:"app"`
	AppRoot  string          `json:"appRoot"`
	Strategy string          `json:"strategy"`
	Services []types.Service `json:"services"`
}

// RestoreSummary is the result of the restore command
type RestoreSummary struct {
	DestRoot   string   `json:"destRoot"`
	SymlinkMap string   `json:"symlinkMap"`
	MapFound   bool     `json:"mapFound"`
	Restored   []string `json:"restored"`
	Failed     []string `json:"failed,omitempty"`
}

// NewRestoreSummary builds a RestoreSummary from a restore report
func NewRestoreSummary(destRoot, mapPath string, report symlinkmap.Report) *RestoreSummary {
	return &RestoreSummary{
		DestRoot:   destRoot,
		SymlinkMap: mapPath,
		MapFound:   report.MapFound,
		Restored:   report.Restored,
		Failed:     report.FailedPaths(),
	}
}

// Markdown renders a known result type. ok is false for other types.
func Markdown(result interface{}) (md string, ok bool) {
	switch v := result.(type) {
	case *migrate.Result:
		return ResultMarkdown(v), true
	case *ServiceList:
		return ServicesMarkdown(v), true
	case *tunables.Report:
		return TunablesMarkdown(v), true
	case *RestoreSummary:
		return RestoreMarkdown(v), true
	default:
		return "", false
	}
}

// ResultMarkdown summarises a migration run
func ResultMarkdown(r *migrate.Result) string {
	var b strings.Builder

	title := fmt.Sprintf("# Migration of %s: %s", r.App, r.Status)
	if r.DryRun {
		title += " (dry run)"
	}
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("- Source: `%s`\n", orNone(r.ConfigRoot)))
	b.WriteString(fmt.Sprintf("- Destination: `%s`\n", r.DestRoot))
	if !r.DryRun && r.Status != migrate.StatusNothingToDo {
		b.WriteString(fmt.Sprintf("- Symlink map: `%s`\n", r.SymlinkMapPath))
	}
	b.WriteString(fmt.Sprintf("- Run: `%s`, %s\n", r.RunID, r.Duration().Round(time.Millisecond)))

	if len(r.Services) > 0 {
		b.WriteString("\n## Services\n\n")
		b.WriteString("| Unit | Stopped | Started |\n|---|---|---|\n")
		for _, svc := range r.Services {
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", svc.Name, mark(r.Stopped, svc.Name), mark(r.Started, svc.Name)))
		}
	}

	if r.Copy.Files+r.Copy.Dirs > 0 {
		b.WriteString("\n## Copy\n\n")
		b.WriteString(fmt.Sprintf("%d files (%d bytes) in %d directories, %d symlinks recorded, %d skipped.\n",
			r.Copy.Files, r.Copy.Bytes, r.Copy.Dirs, r.Symlinks, r.Copy.Skipped))
		if len(r.Restored) > 0 || len(r.FailedSymlinks) > 0 {
			b.WriteString(fmt.Sprintf("%d symlinks restored.\n", len(r.Restored)))
		}
		for _, p := range r.FailedSymlinks {
			b.WriteString(fmt.Sprintf("- could not restore `%s`\n", p))
		}
	}

	if r.Tunables != nil && len(r.Tunables.Files) > 0 {
		b.WriteString(fmt.Sprintf("\n## Tunables\n\n%d settings in %d files.\n", r.Tunables.KeyCount(), len(r.Tunables.Files)))
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, e := range r.Errors {
			b.WriteString("- " + e + "\n")
		}
	}
	return b.String()
}

// ServicesMarkdown lists discovered services
func ServicesMarkdown(l *ServiceList) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Services for %s\n\n", l.App))
	if l.AppRoot != "" {
		b.WriteString(fmt.Sprintf("Application root: `%s` (%s discovery)\n\n", l.AppRoot, l.Strategy))
	}
	if len(l.Services) == 0 {
		b.WriteString("No matching services.\n")
		return b.String()
	}
	b.WriteString("| Unit | Enabled | Active |\n|---|---|---|\n")
	for _, svc := range l.Services {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", svc.Name, orNone(svc.EnabledState), orNone(svc.ActiveState)))
	}
	return b.String()
}

// TunablesMarkdown lists the keys found by a scan
func TunablesMarkdown(r *tunables.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Tunables in %s\n\n", r.Root))
	if len(r.Files) == 0 {
		b.WriteString("No recognised configuration files.\n")
	}
	for _, f := range r.Files {
		b.WriteString(fmt.Sprintf("## %s (%s)\n\n", f.Path, f.Format))
		if len(f.Keys) == 0 {
			b.WriteString("_no keys_\n\n")
			continue
		}
		for _, k := range f.Keys {
			b.WriteString("- `" + k + "`\n")
		}
		b.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w.String() + "\n")
		}
	}
	return b.String()
}

// RestoreMarkdown summarises a standalone restore
func RestoreMarkdown(s *RestoreSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Symlinks in %s\n\n", s.DestRoot))
	if !s.MapFound {
		b.WriteString(fmt.Sprintf("No symlink map at `%s`, nothing restored.\n", s.SymlinkMap))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%d restored from `%s`.\n", len(s.Restored), s.SymlinkMap))
	if len(s.Restored) > 0 {
		restored := append([]string(nil), s.Restored...)
		sort.Strings(restored)
		b.WriteString("\n## Restored\n\n")
		for _, p := range restored {
			b.WriteString("- `" + p + "`\n")
		}
	}
	if len(s.Failed) > 0 {
		failed := append([]string(nil), s.Failed...)
		sort.Strings(failed)
		b.WriteString("\n## Failed\n\n")
		for _, p := range failed {
			b.WriteString("- `" + p + "`\n")
		}
	}
	return b.String()
}

func mark(list []string, name string) string {
	for _, n := range list {
		if n == name {
			return "yes"
		}
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
