package jpegtran

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned when an option argument is outside its
// fixed set of accepted values.
var ErrInvalidArgument = errors.New("invalid argument")

// Accepted values for the enumerated options.
var (
	flipDirections = []string{"horizontal", "vertical"}
	rotateAngles   = []int{90, 180, 270}
	copyModes      = []string{"none", "comments", "all"}
)

// Transform is an immutable description of one jpegtran invocation.
// Every option method returns a new Transform; the receiver is never
// modified, so partially built chains can be shared and reused.
type Transform struct {
	path     string
	options  []string
	debug    bool
	verbose  bool
	settings Settings
}

// Open starts a transform of the JPEG file at path. The path is not
// checked here; jpegtran reports a missing file when it runs.
func Open(path string) Transform {
	return Transform{path: path, settings: DefaultSettings()}
}

// with returns a copy of t with tokens appended. The new slice is sized
// exactly so that later appends on either value never share storage.
func (t Transform) with(tokens ...string) Transform {
	opts := make([]string, 0, len(t.options)+len(tokens))
	opts = append(opts, t.options...)
	opts = append(opts, tokens...)
	t.options = opts
	return t
}

// Optimize performs optimization of entropy encoding parameters.
func (t Transform) Optimize() Transform { return t.with("-optimize") }

// Progressive creates a progressive JPEG file.
func (t Transform) Progressive() Transform { return t.with("-progressive") }

// Restart emits a restart marker every n MCU rows, or every n MCU blocks
// if "B" is attached to the number.
func (t Transform) Restart(n string) Transform { return t.with("-restart", n) }

// Arithmetic uses arithmetic coding.
func (t Transform) Arithmetic() Transform { return t.with("-arithmetic") }

// Scans uses the scan script in the given text file.
func (t Transform) Scans(file string) Transform { return t.with("-scans", file) }

// Flip mirrors the image horizontally or vertically.
func (t Transform) Flip(direction string) (Transform, error) {
	if !contains(flipDirections, direction) {
		return Transform{}, fmt.Errorf("%w: flip direction %q (want %s)",
			ErrInvalidArgument, direction, strings.Join(flipDirections, " or "))
	}
	return t.with("-flip", direction), nil
}

// Rotate rotates the image clockwise by 90, 180 or 270 degrees.
func (t Transform) Rotate(angle int) (Transform, error) {
	if !contains(rotateAngles, angle) {
		return Transform{}, fmt.Errorf("%w: rotate angle %d (want 90, 180 or 270)",
			ErrInvalidArgument, angle)
	}
	return t.with("-rotate", strconv.Itoa(angle)), nil
}

// Transpose transposes the image across the upper-left to lower-right axis.
func (t Transform) Transpose() Transform { return t.with("-transpose") }

// Transverse transposes the image across the upper-right to lower-left axis.
func (t Transform) Transverse() Transform { return t.with("-transverse") }

// Trim drops non-transformable edge blocks.
func (t Transform) Trim() Transform { return t.with("-trim") }

// Crop crops the image to a width x height region starting at x,y.
// Values are passed through unchecked.
func (t Transform) Crop(width, height, x, y int) Transform {
	return t.with("-crop", fmt.Sprintf("%dx%d+%d+%d", width, height, x, y))
}

// Grayscale forces grayscale output.
func (t Transform) Grayscale() Transform { return t.with("-grayscale") }

// Greyscale is an alias for Grayscale.
func (t Transform) Greyscale() Transform { return t.Grayscale() }

// Copy keeps only the given markers: none, comments or all.
func (t Transform) Copy(mode string) (Transform, error) {
	if !contains(copyModes, mode) {
		return Transform{}, fmt.Errorf("%w: copy mode %q (want none, comments or all)",
			ErrInvalidArgument, mode)
	}
	return t.with("-copy", mode), nil
}

// Verbose enables verbose output from jpegtran.
func (t Transform) Verbose() Transform {
	t.verbose = true
	return t
}

// Debug enables debug output from jpegtran. jpegtran documents it as the
// same as Verbose, but it is passed as its own flag.
func (t Transform) Debug() Transform {
	t.debug = true
	return t
}

// WithSettings returns a copy of t that runs with s.
func (t Transform) WithSettings(s Settings) Transform {
	t.settings = s
	return t
}

// Path returns the source file path.
func (t Transform) Path() string { return t.path }

// Options returns a copy of the accumulated option tokens.
func (t Transform) Options() []string {
	out := make([]string, len(t.options))
	copy(out, t.options)
	return out
}

// IsDebug reports whether -debug will be passed.
func (t Transform) IsDebug() bool { return t.debug }

// IsVerbose reports whether -verbose will be passed.
func (t Transform) IsVerbose() bool { return t.verbose }

// Settings returns the invocation settings t runs with.
func (t Transform) Settings() Settings { return t.settings }

// Command assembles the tool name and flags, without the output and
// source arguments.
func (t Transform) Command() []string {
	cmd := make([]string, 0, len(t.options)+5)
	cmd = append(cmd, t.settings.binary())
	cmd = append(cmd, t.options...)
	if t.settings.MaxMemory != "" {
		cmd = append(cmd, "-maxmemory", t.settings.MaxMemory)
	}
	if t.debug {
		cmd = append(cmd, "-debug")
	}
	if t.verbose {
		cmd = append(cmd, "-verbose")
	}
	return cmd
}

// Args returns the complete argv used by Save for the given output path.
func (t Transform) Args(outPath string) []string {
	return append(t.Command(), "-outfile", outPath, t.path)
}

// String renders t for logs and debugging.
func (t Transform) String() string {
	return fmt.Sprintf("Transform(%s, [%s])", t.path, strings.Join(t.options, " "))
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
