package recipe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/AnyUserName/jpegtx/internal/jpegtran"
)

func TestParse_MatchesBuilderChain(t *testing.T) {
	r, err := Parse("t", "trim, rotate=90 ,flip=horizontal,crop=100x50+4+2,copy=none,restart=8B,optimize")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := r.Apply(jpegtran.Open("in.jpg"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := jpegtran.Open("in.jpg").Trim()
	want, _ = want.Rotate(90)
	want, _ = want.Flip("horizontal")
	want = want.Crop(100, 50, 4, 2)
	want, _ = want.Copy("none")
	want = want.Restart("8B").Optimize()

	if !reflect.DeepEqual(got.Command(), want.Command()) {
		t.Errorf("command: got %q, want %q", got.Command(), want.Command())
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		text string
		want error
	}{
		{"sharpen", ErrUnknownStep},
		{"rotate=45", jpegtran.ErrInvalidArgument},
		{"rotate=ninety", jpegtran.ErrInvalidArgument},
		{"flip=diagonal", jpegtran.ErrInvalidArgument},
		{"copy=everything", jpegtran.ErrInvalidArgument},
		{"crop=100", jpegtran.ErrInvalidArgument},
		{"crop=100x50+4", jpegtran.ErrInvalidArgument},
	}
	for _, tc := range cases {
		if _, err := Parse("bad", tc.text); !errors.Is(err, tc.want) {
			t.Errorf("%q: got %v, want %v", tc.text, err, tc.want)
		}
	}

	if _, err := Parse("bad", "restart"); err == nil {
		t.Error("restart without argument: expected error")
	}
	if _, err := Parse("empty", " , "); err == nil {
		t.Error("empty recipe: expected error")
	}
}

func TestBuiltins_AllParse(t *testing.T) {
	for _, name := range Names() {
		r, ok := Get(name)
		if !ok {
			t.Fatalf("Get(%q) missing", name)
		}
		if r.Name != name || len(r.Steps) == 0 {
			t.Errorf("recipe %q: got %+v", name, r)
		}
	}
}

func TestResolve(t *testing.T) {
	r, err := Resolve("web")
	if err != nil {
		t.Fatalf("resolve builtin: %v", err)
	}
	if r.String() != "optimize,progressive,copy=none" {
		t.Errorf("web steps: got %q", r.String())
	}

	r, err = Resolve("grayscale,trim")
	if err != nil {
		t.Fatalf("resolve inline: %v", err)
	}
	if r.Name != "custom" || len(r.Steps) != 2 {
		t.Errorf("inline recipe: got %+v", r)
	}
}

func TestParseGeometry(t *testing.T) {
	w, h, x, y, err := ParseGeometry("640x480")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if w != 640 || h != 480 || x != 0 || y != 0 {
		t.Errorf("got %dx%d+%d+%d", w, h, x, y)
	}

	w, h, x, y, err = ParseGeometry("10x20+-3+7")
	if err != nil {
		t.Fatalf("parse negative offset: %v", err)
	}
	if w != 10 || h != 20 || x != -3 || y != 7 {
		t.Errorf("got %dx%d+%d+%d", w, h, x, y)
	}
}
