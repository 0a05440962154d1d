package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/logging"
	"github.com/AnyUserName/jpegtx/internal/manifest"
	"github.com/AnyUserName/jpegtx/internal/metrics"
	"github.com/AnyUserName/jpegtx/internal/pipeline"
	"github.com/AnyUserName/jpegtx/internal/recipe"
)

var (
	batchOutDir      string
	batchRecipe      string
	batchWorkers     int
	batchVerify      bool
	batchSuffix      string
	batchMetricsFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Apply a recipe to every JPEG in a directory",
	Long: `Scans input directory for JPEG files (jpg, jpeg, jpe), runs jpegtran
with the chosen recipe on each in parallel, mirrors the directory tree
into the output directory, and writes a manifest file.

Files whose content is not JPEG are recorded and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./jpegtx_out", "output directory")
	batchCmd.Flags().StringVarP(&batchRecipe, "recipe", "r", "", "recipe name or inline steps (default from config: web)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchVerify, "verify", false, "decode every output after writing")
	batchCmd.Flags().StringVar(&batchSuffix, "suffix", "", "insert suffix before each output extension")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := logging.L()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Flags win over config.
	recipeName := cfg.Recipe
	if batchRecipe != "" {
		recipeName = batchRecipe
	}
	rec, err := recipe.Resolve(recipeName)
	if err != nil {
		return err
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = batchWorkers
	}
	verify := cfg.Verify || batchVerify

	log.Debug("batch", "input", absInput, "output", absOutput, "recipe", rec.Name, "steps", rec.String())

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	met := metrics.New()
	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Recipe:    rec,
		Settings:  cfg.Settings(),
		Workers:   workers,
		Verify:    verify,
		Suffix:    batchSuffix,
		Logger:    log,
		Metrics:   met,
	})

	m, runErr := p.Run()
	if m == nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if batchMetricsFile != "" {
		if err := met.WriteTextfile(batchMetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	printBatchReport(cmd.OutOrStdout(), m, time.Since(start))

	if runErr != nil {
		return fmt.Errorf("pipeline: %w", runErr)
	}
	return nil
}

func printBatchReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  jpegtx batch complete (recipe %s: %s)\n", m.Recipe, m.Steps)
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Sources:     %d\n", s.TotalSources)
	fmt.Fprintf(w, "  Succeeded:   %d\n", s.Succeeded)
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if in := succeededInputBytes(m); in > 0 {
		fmt.Fprintf(w, "  Ratio:       %.1f%% of original\n", float64(s.TotalOutputBytes)/float64(in)*100)
	}
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	// Top 10 savings.
	type saving struct {
		key     string
		in, out int64
	}
	var items []saving
	for key, e := range m.Entries {
		if e.OK() {
			items = append(items, saving{key, e.Source.Size, e.Output.Size})
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool {
			di := items[i].in - items[i].out
			dj := items[j].in - items[j].out
			if di != dj {
				return di > dj
			}
			return items[i].key < items[j].key
		})
		n := min(len(items), 10)
		fmt.Fprintf(w, "  Top %d savings (original → transformed):\n", n)
		for _, it := range items[:n] {
			fmt.Fprintf(w, "    %-40s %8s → %8s\n",
				truncKey(it.key, 40), formatBytes(it.in), formatBytes(it.out))
		}
		fmt.Fprintln(w)
	}

	if failures := failureLines(m); len(failures) > 0 {
		fmt.Fprintf(w, "  Failures (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "    ✗ %s\n", f)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Manifest:    %s\n", manifest.FileName)
	fmt.Fprintln(w)
}

func succeededInputBytes(m *manifest.Manifest) int64 {
	var n int64
	for _, e := range m.Entries {
		if e.OK() {
			n += e.Source.Size
		}
	}
	return n
}

func failureLines(m *manifest.Manifest) []string {
	var out []string
	for _, e := range m.Entries {
		if e.OK() {
			continue
		}
		reason := e.Error
		if reason == "" {
			reason = fmt.Sprintf("exit %d: %s", e.ExitCode, firstLine(e.Stderr))
		}
		out = append(out, fmt.Sprintf("%s: %s", e.Source.Path, reason))
	}
	sort.Strings(out)
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
