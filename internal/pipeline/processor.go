package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/AnyUserName/jpegtx/internal/hasher"
	"github.com/AnyUserName/jpegtx/internal/jpegtran"
	"github.com/AnyUserName/jpegtx/internal/manifest"
	"github.com/AnyUserName/jpegtx/internal/metrics"
	"github.com/AnyUserName/jpegtx/internal/probe"
)

// maxStderr bounds the tool output kept in the manifest.
const maxStderr = 2048

// processResult holds the result of processing a single source file.
type processResult struct {
	key     string
	entry   manifest.Entry
	outcome string
	fatal   error // spawn failure; aborts the run
}

// OutputPath maps a source's relative path to its output path, inserting
// suffix before the extension.
func OutputPath(relPath, suffix string) string {
	ext := path.Ext(relPath)
	return strings.TrimSuffix(relPath, ext) + suffix + ext
}

// processSource runs the recipe on one file: probe, transform, hash, and
// optionally verify.
func processSource(src Source, cfg Config) processResult {
	result := processResult{
		key: src.Key,
		entry: manifest.Entry{
			Source: manifest.SourceInfo{Path: src.RelPath, Size: src.Size},
		},
		outcome: metrics.OutcomeFailed,
	}

	// Only hand real JPEG payloads to jpegtran.
	info, err := probe.Inspect(src.AbsPath)
	if err != nil {
		result.entry.Error = err.Error()
		result.outcome = metrics.OutcomeSkipped
		return result
	}
	result.entry.Source.Format = info.Format
	result.entry.Source.Width = info.Width
	result.entry.Source.Height = info.Height
	if !info.IsJPEG() {
		result.entry.Error = fmt.Sprintf("not a JPEG (detected %s)", info.Format)
		result.outcome = metrics.OutcomeSkipped
		return result
	}

	tr, err := cfg.Recipe.Apply(jpegtran.Open(src.AbsPath).WithSettings(cfg.Settings))
	if err != nil {
		result.entry.Error = err.Error()
		result.outcome = metrics.OutcomeSkipped
		return result
	}

	relOut := OutputPath(src.RelPath, cfg.Suffix)
	absOut := filepath.Join(cfg.OutputDir, filepath.FromSlash(relOut))
	if err := os.MkdirAll(filepath.Dir(absOut), 0o755); err != nil {
		result.entry.Error = fmt.Sprintf("create output dir: %v", err)
		return result
	}

	res, err := tr.Save(absOut)
	if err != nil {
		result.fatal = err
		result.outcome = metrics.OutcomeSpawn
		result.entry.Error = err.Error()
		return result
	}
	result.entry.Args = res.Args
	result.entry.ExitCode = res.ExitCode
	result.entry.Stderr = trimOutput(res.Stderr)
	result.entry.DurationMS = res.Duration.Milliseconds()

	if !res.Success() {
		// jpegtran may leave a partial file behind.
		if err := os.Remove(absOut); err != nil && !errors.Is(err, os.ErrNotExist) {
			cfg.Logger.Warn("remove partial output", "path", relOut, "err", err)
		}
		return result
	}

	out, err := describeOutput(absOut, relOut, cfg.Verify)
	if err != nil {
		result.entry.Error = err.Error()
		return result
	}
	result.entry.Output = out
	result.outcome = metrics.OutcomeOK
	return result
}

func describeOutput(absOut, relOut string, verify bool) (*manifest.OutputInfo, error) {
	st, err := os.Stat(absOut)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}
	hash, err := hasher.File(absOut, hasher.HexLen)
	if err != nil {
		return nil, err
	}
	out := &manifest.OutputInfo{Path: relOut, Size: st.Size(), Hash: hash}

	if verify {
		w, h, err := probe.Verify(absOut)
		if err != nil {
			return nil, err
		}
		out.Width, out.Height, out.Verified = w, h, true
	} else if info, err := probe.Inspect(absOut); err == nil {
		out.Width, out.Height = info.Width, info.Height
	}
	return out, nil
}

// trimOutput trims b and bounds it to maxStderr bytes, cutting on a rune boundary.
func trimOutput(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxStderr {
		return s
	}
	cut := maxStderr
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
