package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/jpegtran"
	"github.com/AnyUserName/jpegtx/internal/logging"
	"github.com/AnyUserName/jpegtx/internal/recipe"
)

var (
	runOutfile     string
	runRecipe      string
	runDryRun      bool
	runOptimize    bool
	runProgressive bool
	runRestart     string
	runArithmetic  bool
	runScans       string
	runFlip        string
	runRotate      int
	runTranspose   bool
	runTransverse  bool
	runTrim        bool
	runCrop        string
	runGrayscale   bool
	runCopy        string
	runDebug       bool
	runToolVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <input.jpg>",
	Short: "Transform a single JPEG file",
	Long: `Builds one jpegtran command line and runs it.

Recipe steps (--recipe) are applied first, then the individual option
flags in the order they are listed in --help. jpegtran's own output is
relayed, and its exit status becomes jpegtx's exit status.`,
	Example: `  jpegtx run in.jpg -o out.jpg --rotate 90 --optimize --copy none
  jpegtx run in.jpg -o out.jpg --recipe web --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOutfile, "outfile", "o", "", "output file (required)")
	f.StringVarP(&runRecipe, "recipe", "r", "", "built-in recipe name or inline steps")
	f.BoolVar(&runDryRun, "dry-run", false, "print the jpegtran command line instead of running it")
	f.BoolVar(&runOptimize, "optimize", false, "optimize entropy encoding parameters")
	f.BoolVar(&runProgressive, "progressive", false, "create progressive JPEG")
	f.StringVar(&runRestart, "restart", "", "restart marker every N MCU rows (or N MCU blocks with B suffix)")
	f.BoolVar(&runArithmetic, "arithmetic", false, "use arithmetic coding")
	f.StringVar(&runScans, "scans", "", "scan script file")
	f.StringVar(&runFlip, "flip", "", "mirror image: horizontal|vertical")
	f.IntVar(&runRotate, "rotate", 0, "rotate clockwise: 90|180|270")
	f.BoolVar(&runTranspose, "transpose", false, "transpose across UL-to-LR axis")
	f.BoolVar(&runTransverse, "transverse", false, "transpose across UR-to-LL axis")
	f.BoolVar(&runTrim, "trim", false, "drop non-transformable edge blocks")
	f.StringVar(&runCrop, "crop", "", "crop region WxH+X+Y")
	f.BoolVar(&runGrayscale, "grayscale", false, "force grayscale output")
	f.StringVar(&runCopy, "copy", "", "markers to copy: none|comments|all")
	f.BoolVar(&runDebug, "debug", false, "pass -debug to jpegtran")
	f.BoolVar(&runToolVerbose, "tool-verbose", false, "pass -verbose to jpegtran")
	_ = runCmd.MarkFlagRequired("outfile")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	tr, err := buildTransform(cmd, args[0])
	if err != nil {
		return err
	}

	if runDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), shellJoin(tr.Args(runOutfile)))
		return nil
	}

	logging.L().Debug("running jpegtran", "args", tr.Args(runOutfile))
	res, err := tr.Save(runOutfile)
	if err != nil {
		return err
	}
	cmd.OutOrStdout().Write(res.Stdout)
	cmd.ErrOrStderr().Write(res.Stderr)
	logging.L().Debug("jpegtran finished", "exit_code", res.ExitCode, "duration", res.Duration)

	if !res.Success() {
		return &exitError{code: res.ExitCode}
	}
	return nil
}

// buildTransform applies --recipe and then each option flag that was set.
func buildTransform(cmd *cobra.Command, src string) (jpegtran.Transform, error) {
	tr := jpegtran.Open(src).WithSettings(cfg.Settings())
	flags := cmd.Flags()

	if runRecipe != "" {
		r, err := recipe.Resolve(runRecipe)
		if err != nil {
			return tr, err
		}
		if tr, err = r.Apply(tr); err != nil {
			return tr, err
		}
	}

	var err error
	if runOptimize {
		tr = tr.Optimize()
	}
	if runProgressive {
		tr = tr.Progressive()
	}
	if flags.Changed("restart") {
		tr = tr.Restart(runRestart)
	}
	if runArithmetic {
		tr = tr.Arithmetic()
	}
	if flags.Changed("scans") {
		tr = tr.Scans(runScans)
	}
	if flags.Changed("flip") {
		if tr, err = tr.Flip(runFlip); err != nil {
			return tr, err
		}
	}
	if flags.Changed("rotate") {
		if tr, err = tr.Rotate(runRotate); err != nil {
			return tr, err
		}
	}
	if runTranspose {
		tr = tr.Transpose()
	}
	if runTransverse {
		tr = tr.Transverse()
	}
	if runTrim {
		tr = tr.Trim()
	}
	if flags.Changed("crop") {
		w, h, x, y, err := recipe.ParseGeometry(runCrop)
		if err != nil {
			return tr, err
		}
		tr = tr.Crop(w, h, x, y)
	}
	if runGrayscale {
		tr = tr.Grayscale()
	}
	if flags.Changed("copy") {
		if tr, err = tr.Copy(runCopy); err != nil {
			return tr, err
		}
	}
	if runDebug {
		tr = tr.Debug()
	}
	if runToolVerbose {
		tr = tr.Verbose()
	}
	return tr, nil
}

// shellJoin quotes arguments that contain spaces or shell metacharacters.
func shellJoin(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$`*?;&|<>()") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		out[i] = a
	}
	return strings.Join(out, " ")
}
