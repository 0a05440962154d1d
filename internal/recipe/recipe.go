package recipe

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/AnyUserName/jpegtx/internal/jpegtran"
)

// ErrUnknownStep is returned for an op name that has no transform.
var ErrUnknownStep = errors.New("unknown step")

// Step is one transform operation with an optional argument.
type Step struct {
	Op  string
	Arg string
}

func (s Step) String() string {
	if s.Arg == "" {
		return s.Op
	}
	return s.Op + "=" + s.Arg
}

// Recipe is a named sequence of transform steps.
type Recipe struct {
	Name  string
	Steps []Step
}

// String renders the steps in the syntax accepted by Parse.
func (r Recipe) String() string {
	parts := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Built-in recipes.
var recipes = map[string]string{
	"web":         "optimize,progressive,copy=none",
	"archive":     "optimize,copy=all",
	"strip":       "copy=none",
	"rotate-cw":   "rotate=90",
	"rotate-ccw":  "rotate=270",
	"upside-down": "rotate=180",
	"mirror":      "flip=horizontal",
	"gray":        "grayscale,optimize",
}

// Get returns a built-in recipe by name.
func Get(name string) (Recipe, bool) {
	text, ok := recipes[name]
	if !ok {
		return Recipe{}, false
	}
	r, err := Parse(name, text)
	if err != nil {
		panic(fmt.Sprintf("recipe: built-in %q: %v", name, err))
	}
	return r, true
}

// Names lists built-in recipe names in sorted order.
func Names() []string {
	names := make([]string, 0, len(recipes))
	for n := range recipes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve accepts either a built-in name or inline steps such as
// "rotate=90,optimize". Inline recipes are named "custom".
func Resolve(s string) (Recipe, error) {
	if r, ok := Get(s); ok {
		return r, nil
	}
	return Parse("custom", s)
}

// Parse reads comma-separated steps of the form op or op=arg. Each step
// is checked against a blank transform so that bad arguments surface
// before any file is touched.
func Parse(name, text string) (Recipe, error) {
	r := Recipe{Name: name}
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		op, arg, _ := strings.Cut(field, "=")
		step := Step{Op: strings.ToLower(strings.TrimSpace(op)), Arg: strings.TrimSpace(arg)}
		if _, err := step.apply(jpegtran.Open("")); err != nil {
			return Recipe{}, fmt.Errorf("recipe %q: %w", name, err)
		}
		r.Steps = append(r.Steps, step)
	}
	if len(r.Steps) == 0 {
		return Recipe{}, fmt.Errorf("recipe %q: no steps", name)
	}
	return r, nil
}

// Apply threads t through every step in order.
func (r Recipe) Apply(t jpegtran.Transform) (jpegtran.Transform, error) {
	for _, s := range r.Steps {
		var err error
		if t, err = s.apply(t); err != nil {
			return jpegtran.Transform{}, err
		}
	}
	return t, nil
}

func (s Step) apply(t jpegtran.Transform) (jpegtran.Transform, error) {
	needArg := func() error {
		if s.Arg == "" {
			return fmt.Errorf("step %q: missing argument", s.Op)
		}
		return nil
	}

	switch s.Op {
	case "optimize":
		return t.Optimize(), nil
	case "progressive":
		return t.Progressive(), nil
	case "arithmetic":
		return t.Arithmetic(), nil
	case "transpose":
		return t.Transpose(), nil
	case "transverse":
		return t.Transverse(), nil
	case "trim":
		return t.Trim(), nil
	case "grayscale":
		return t.Grayscale(), nil
	case "greyscale":
		return t.Greyscale(), nil
	case "verbose":
		return t.Verbose(), nil
	case "debug":
		return t.Debug(), nil
	case "restart":
		if err := needArg(); err != nil {
			return t, err
		}
		return t.Restart(s.Arg), nil
	case "scans":
		if err := needArg(); err != nil {
			return t, err
		}
		return t.Scans(s.Arg), nil
	case "flip":
		return t.Flip(s.Arg)
	case "copy":
		return t.Copy(s.Arg)
	case "rotate":
		angle, err := strconv.Atoi(s.Arg)
		if err != nil {
			return t, fmt.Errorf("%w: rotate angle %q", jpegtran.ErrInvalidArgument, s.Arg)
		}
		return t.Rotate(angle)
	case "crop":
		w, h, x, y, err := ParseGeometry(s.Arg)
		if err != nil {
			return t, err
		}
		return t.Crop(w, h, x, y), nil
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownStep, s.Op)
	}
}

// ParseGeometry splits a crop geometry "WxH+X+Y". The offsets may be
// omitted and default to 0. Only the syntax is checked; range checks are
// left to jpegtran.
func ParseGeometry(g string) (w, h, x, y int, err error) {
	bad := func() error {
		return fmt.Errorf("%w: crop geometry %q (want WxH+X+Y)", jpegtran.ErrInvalidArgument, g)
	}

	size, offsets, _ := strings.Cut(g, "+")
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, 0, 0, bad()
	}
	if w, err = strconv.Atoi(ws); err != nil {
		return 0, 0, 0, 0, bad()
	}
	if h, err = strconv.Atoi(hs); err != nil {
		return 0, 0, 0, 0, bad()
	}
	if offsets != "" {
		xs, ys, ok := strings.Cut(offsets, "+")
		if !ok {
			return 0, 0, 0, 0, bad()
		}
		if x, err = strconv.Atoi(xs); err != nil {
			return 0, 0, 0, 0, bad()
		}
		if y, err = strconv.Atoi(ys); err != nil {
			return 0, 0, 0, 0, bad()
		}
	}
	return w, h, x, y, nil
}
