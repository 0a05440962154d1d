package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/jpegtx/internal/hasher"
)

// Validate checks the manifest against the files under baseDir and
// returns one message per problem found.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	for key, e := range m.Entries {
		if e.Source.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing source path", key))
		}
		if !e.OK() {
			if e.ExitCode == 0 && e.Error == "" {
				errs = append(errs, fmt.Sprintf("entry %q: exit code 0 but no output", key))
			}
			continue
		}

		out := e.Output
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing output path", key))
			continue
		}
		if prev, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("entry %q: output path %q also used by %q", key, out.Path, prev))
		}
		seenPaths[out.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(out.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: file not found: %s", key, out.Path))
			continue
		}
		if info.Size() != out.Size {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: manifest=%d, disk=%d",
				key, out.Size, info.Size()))
		}
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing hash", key))
		} else if h, err := hasher.File(fullPath, len(out.Hash)); err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: %v", key, err))
		} else if h != out.Hash {
			errs = append(errs, fmt.Sprintf("entry %q: hash mismatch: manifest=%s, disk=%s", key, out.Hash, h))
		}
	}

	// Verify stats consistency.
	want := *m
	want.ComputeStats()
	if m.Stats.TotalSources != want.Stats.TotalSources {
		errs = append(errs, fmt.Sprintf("stats.total_sources mismatch: %d != %d",
			m.Stats.TotalSources, want.Stats.TotalSources))
	}
	if m.Stats.Succeeded != want.Stats.Succeeded || m.Stats.Failed != want.Stats.Failed {
		errs = append(errs, fmt.Sprintf("stats succeeded/failed mismatch: %d/%d != %d/%d",
			m.Stats.Succeeded, m.Stats.Failed, want.Stats.Succeeded, want.Stats.Failed))
	}

	return errs
}
