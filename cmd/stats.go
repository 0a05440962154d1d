package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), m)
	return nil
}

// manifestPath accepts a manifest file or a directory containing one.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func printStats(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest version: %d\n", m.Version)
	fmt.Fprintf(w, "  Generated:        %s\n", m.GeneratedAt)
	fmt.Fprintf(w, "  Recipe:           %s (%s)\n", m.Recipe, m.Steps)
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Tool:             %s\n", m.BuildInfo.Tool)
		if m.BuildInfo.MaxMemory != "" {
			fmt.Fprintf(w, "  Max memory:       %s\n", m.BuildInfo.MaxMemory)
		}
		fmt.Fprintf(w, "  Workers:          %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	s := m.Stats
	fmt.Fprintf(w, "  Total sources:    %d\n", s.TotalSources)
	fmt.Fprintf(w, "  Succeeded:        %d\n", s.Succeeded)
	fmt.Fprintf(w, "  Failed:           %d\n", s.Failed)
	fmt.Fprintf(w, "  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if in := succeededInputBytes(m); in > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(in) * 100
		fmt.Fprintf(w, "  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Fprintln(w)

	// Exit status breakdown.
	codes := map[int]int{}
	var skipped int
	var totalMS int64
	for _, e := range m.Entries {
		totalMS += e.DurationMS
		if e.Error != "" && e.Args == nil {
			skipped++
			continue
		}
		codes[e.ExitCode]++
	}
	var keys []int
	for c := range codes {
		keys = append(keys, c)
	}
	sort.Ints(keys)
	fmt.Fprintln(w, "  Exit status breakdown:")
	for _, c := range keys {
		fmt.Fprintf(w, "    %3d  %4d files\n", c, codes[c])
	}
	if skipped > 0 {
		fmt.Fprintf(w, "    n/a  %4d files (not run)\n", skipped)
	}
	if n := len(m.Entries) - skipped; n > 0 {
		fmt.Fprintf(w, "  Mean jpegtran time: %d ms\n", totalMS/int64(n))
	}

	if failures := failureLines(m); len(failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Failures (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "    ⚠ %s\n", f)
		}
	}
	fmt.Fprintln(w)
}
