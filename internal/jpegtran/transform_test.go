package jpegtran

import (
	"errors"
	"reflect"
	"testing"
)

func mustT(t *testing.T) func(Transform, error) Transform {
	return func(tr Transform, err error) Transform {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return tr
	}
}

func TestCommand_OptimizeProgressive(t *testing.T) {
	got := Open("in.jpg").Optimize().Progressive().Command()
	want := []string{"jpegtran", "-optimize", "-progressive"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("command: got %q, want %q", got, want)
	}
}

func TestOptions_TokensPerMethod(t *testing.T) {
	must := mustT(t)
	base := Open("in.jpg")
	cases := []struct {
		name string
		tr   Transform
		want []string
	}{
		{"optimize", base.Optimize(), []string{"-optimize"}},
		{"progressive", base.Progressive(), []string{"-progressive"}},
		{"restart", base.Restart("10B"), []string{"-restart", "10B"}},
		{"arithmetic", base.Arithmetic(), []string{"-arithmetic"}},
		{"scans", base.Scans("scans.txt"), []string{"-scans", "scans.txt"}},
		{"flip", must(base.Flip("vertical")), []string{"-flip", "vertical"}},
		{"rotate", must(base.Rotate(270)), []string{"-rotate", "270"}},
		{"transpose", base.Transpose(), []string{"-transpose"}},
		{"transverse", base.Transverse(), []string{"-transverse"}},
		{"trim", base.Trim(), []string{"-trim"}},
		{"crop", base.Crop(640, 480, 16, 8), []string{"-crop", "640x480+16+8"}},
		{"crop negative", base.Crop(-1, 10, -5, 0), []string{"-crop", "-1x10+-5+0"}},
		{"grayscale", base.Grayscale(), []string{"-grayscale"}},
		{"greyscale", base.Greyscale(), []string{"-grayscale"}},
		{"copy", must(base.Copy("comments")), []string{"-copy", "comments"}},
		{"verbose", base.Verbose(), []string{}},
		{"debug", base.Debug(), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tr.Options(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("options: got %q, want %q", got, tc.want)
			}
			if tc.tr.Path() != "in.jpg" {
				t.Errorf("path: got %q", tc.tr.Path())
			}
		})
	}
}

func TestOptions_OrderIsCallOrder(t *testing.T) {
	must := mustT(t)
	tr := must(must(Open("in.jpg").Trim().Rotate(90)).Flip("horizontal")).Optimize()
	want := []string{"-trim", "-rotate", "90", "-flip", "horizontal", "-optimize"}
	if got := tr.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("options: got %q, want %q", got, want)
	}
}

func TestTransform_Immutable(t *testing.T) {
	base := Open("in.jpg").Optimize()
	_ = base.Progressive()
	_ = base.Verbose()
	_ = base.Debug()
	_ = base.WithSettings(Settings{MaxMemory: "1M"})

	if got := base.Options(); !reflect.DeepEqual(got, []string{"-optimize"}) {
		t.Errorf("receiver options changed: %q", got)
	}
	if base.IsVerbose() || base.IsDebug() {
		t.Error("receiver toggles changed")
	}
	if base.Settings().MaxMemory != "" {
		t.Error("receiver settings changed")
	}
}

func TestTransform_BranchesDoNotAlias(t *testing.T) {
	// Grow a chain so the backing array has spare capacity, then fork it.
	base := Open("in.jpg").Optimize().Progressive().Trim()
	a := base.Transpose()
	b := base.Transverse()

	if got := a.Options()[3]; got != "-transpose" {
		t.Errorf("branch a: got %q, want -transpose", got)
	}
	if got := b.Options()[3]; got != "-transverse" {
		t.Errorf("branch b: got %q, want -transverse", got)
	}
	if len(base.Options()) != 3 {
		t.Errorf("base length: got %d, want 3", len(base.Options()))
	}
}

func TestOptions_ReturnsCopy(t *testing.T) {
	tr := Open("in.jpg").Optimize()
	opts := tr.Options()
	opts[0] = "-progressive"
	if got := tr.Options()[0]; got != "-optimize" {
		t.Errorf("options mutated through accessor: %q", got)
	}
}

func TestValidation_Rejects(t *testing.T) {
	base := Open("in.jpg").Optimize()

	if _, err := base.Flip("diagonal"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("flip diagonal: got %v, want ErrInvalidArgument", err)
	}
	if _, err := base.Rotate(45); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("rotate 45: got %v, want ErrInvalidArgument", err)
	}
	if _, err := base.Copy("everything"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("copy everything: got %v, want ErrInvalidArgument", err)
	}
	if got := base.Options(); !reflect.DeepEqual(got, []string{"-optimize"}) {
		t.Errorf("receiver changed after rejected calls: %q", got)
	}
}

func TestCommand_Suffixes(t *testing.T) {
	tr := Open("in.jpg").
		WithSettings(Settings{Binary: "/opt/bin/jpegtran", MaxMemory: "64M"}).
		Verbose().
		Optimize().
		Debug()

	got := tr.Command()
	want := []string{"/opt/bin/jpegtran", "-optimize", "-maxmemory", "64M", "-debug", "-verbose"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("command: got %q, want %q", got, want)
	}
}

func TestCommand_DebugVersusVerbose(t *testing.T) {
	d := Open("in.jpg").Debug().Command()
	v := Open("in.jpg").Verbose().Command()

	if len(d) != len(v) {
		t.Fatalf("length mismatch: %q vs %q", d, v)
	}
	for i := range d[:len(d)-1] {
		if d[i] != v[i] {
			t.Errorf("token %d differs: %q vs %q", i, d[i], v[i])
		}
	}
	if d[len(d)-1] != "-debug" || v[len(v)-1] != "-verbose" {
		t.Errorf("toggle flags: got %q and %q", d[len(d)-1], v[len(v)-1])
	}
}

func TestCommand_Deterministic(t *testing.T) {
	build := func() Transform {
		tr, _ := Open("a.jpg").Optimize().Rotate(180)
		return tr.Verbose()
	}
	if a, b := build().Command(), build().Command(); !reflect.DeepEqual(a, b) {
		t.Errorf("independent chains differ: %q vs %q", a, b)
	}
}

func TestArgs_AppendsOutfileAndSource(t *testing.T) {
	got := Open("in.jpg").Optimize().Args("out.jpg")
	want := []string{"jpegtran", "-optimize", "-outfile", "out.jpg", "in.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args: got %q, want %q", got, want)
	}
}

func TestSettings_EmptyBinaryFallsBack(t *testing.T) {
	got := Open("in.jpg").WithSettings(Settings{}).Command()
	if got[0] != DefaultBinary {
		t.Errorf("binary: got %q, want %q", got[0], DefaultBinary)
	}
}
