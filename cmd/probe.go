package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/probe"
)

var probeVerify bool

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Show format and dimensions of image files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().BoolVar(&probeVerify, "verify", false, "fully decode each file")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	var bad int
	for _, path := range args {
		info, err := probe.Inspect(path)
		if err != nil {
			bad++
			fmt.Fprintf(w, "  ✗ %s: %v\n", path, err)
			continue
		}
		mark := "✓"
		note := ""
		if !info.IsJPEG() {
			bad++
			mark = "✗"
			note = " (not a JPEG)"
		}
		if probeVerify && info.IsJPEG() {
			if _, _, err := probe.Verify(path); err != nil {
				bad++
				mark = "✗"
				note = fmt.Sprintf(" (decode failed: %v)", err)
			}
		}
		fmt.Fprintf(w, "  %s %s: %s %dx%d %s%s\n",
			mark, path, info.Format, info.Width, info.Height, formatBytes(info.Size), note)
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d files are not usable JPEGs", bad, len(args))
	}
	return nil
}
