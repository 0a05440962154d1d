package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/config"
	"github.com/AnyUserName/jpegtx/internal/logging"
)

var (
	version = "0.1.0"

	configPath string
	toolPath   string
	maxMemory  string
	logLevel   string
	logFormat  string
	verbose    bool

	// cfg is resolved once per invocation in PersistentPreRunE.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jpegtx",
	Short: "Lossless JPEG transforms via jpegtran",
	Long: `jpegtx drives jpegtran to rotate, flip, crop, re-encode and strip
JPEG files without recompression.

Transform one file with "run", or apply a recipe to a whole directory
with "batch" and get a manifest of the results.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&toolPath, "tool", "", "jpegtran executable (default from config or PATH)")
	pf.StringVar(&maxMemory, "maxmemory", "", "memory ceiling passed as -maxmemory (e.g. 64M)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text|json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level=debug)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"jpegtx %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadConfig merges file, environment and flags, then installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var c config.Config
	var err error
	if cmd.Flags().Changed("config") {
		c, err = config.Load(configPath)
	} else {
		c, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("tool") {
		c.Tool = toolPath
	}
	if flags.Changed("maxmemory") {
		c.MaxMemory = maxMemory
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}
	if verbose {
		c.LogLevel = "debug"
	}

	logging.Configure(logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	cfg = c
	return nil
}

// exitError carries a jpegtran exit status up to main.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	if e.code < 0 {
		return "jpegtran was terminated by a signal"
	}
	return fmt.Sprintf("jpegtran exited with status %d", e.code)
}

// ExitCode maps an error returned by Execute to a process exit status.
// jpegtran's own status is passed through. A jpegtran killed by a signal
// reports -1, which maps to 1 like any other jpegtx failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) && ee.code > 0 {
		return ee.code
	}
	return 1
}
