package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/jpegtx/internal/jpegtran"
	"github.com/AnyUserName/jpegtx/internal/logging"
	"github.com/AnyUserName/jpegtx/internal/manifest"
	"github.com/AnyUserName/jpegtx/internal/metrics"
	"github.com/AnyUserName/jpegtx/internal/recipe"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Recipe    recipe.Recipe
	Settings  jpegtran.Settings
	Workers   int
	Verify    bool   // decode every output after writing
	Suffix    string // inserted before the output extension
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Pipeline runs one recipe over a directory of JPEGs.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.L()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the batch and returns the manifest. Individual jpegtran
// failures are recorded in the manifest; Run itself fails only when the
// tool cannot be started or when every source failed.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	log := p.cfg.Logger

	if sameDir(p.cfg.InputDir, p.cfg.OutputDir) && p.cfg.Suffix == "" {
		return nil, errors.New("output directory equals input directory; set a suffix to avoid overwriting sources")
	}

	tool, err := p.cfg.Settings.LookPath()
	if err != nil {
		return nil, err
	}
	log.Debug("using jpegtran", "path", tool, "max_memory", p.cfg.Settings.MaxMemory)

	// Step 1: Scan for JPEGs.
	sources, err := ScanJPEGs(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no JPEG files found in %s", p.cfg.InputDir)
	}
	log.Debug("found sources", "count", len(sources), "recipe", p.cfg.Recipe.Name)

	// Step 2: Transform in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			start := time.Now()
			r := processSource(s, p.cfg)
			results[idx] = r

			var outSize int64
			if r.entry.Output != nil {
				outSize = r.entry.Output.Size
			}
			p.cfg.Metrics.Observe(r.outcome, time.Since(start).Seconds(), s.Size, outSize)
			log.Debug("processed", "source", s.RelPath, "outcome", r.outcome, "exit_code", r.entry.ExitCode)
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Recipe.Name, p.cfg.Recipe.String())
	m.BuildInfo = &manifest.BuildInfo{
		Workers:   p.cfg.Workers,
		Tool:      tool,
		MaxMemory: p.cfg.Settings.MaxMemory,
	}

	var failed int
	for _, r := range results {
		if r.fatal != nil {
			return nil, r.fatal
		}
		m.Entries[r.key] = r.entry
		if !r.entry.OK() {
			failed++
			log.Warn("transform failed",
				"source", r.entry.Source.Path,
				"exit_code", r.entry.ExitCode,
				"stderr", r.entry.Stderr,
				"error", r.entry.Error)
		}
	}
	m.ComputeStats()

	// Partial failures are reported, not fatal.
	if failed == len(sources) {
		return m, fmt.Errorf("all %d sources failed", failed)
	}
	if failed > 0 {
		log.Warn("some sources failed", "failed", failed, "total", len(sources))
	}
	return m, nil
}

func sameDir(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
