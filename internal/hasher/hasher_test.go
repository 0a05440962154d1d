package hasher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSum(t *testing.T) {
	// xxHash64 of the empty input with seed 0.
	if got := Sum(nil, 0); got != "ef46db3751d8e999" {
		t.Errorf("empty: got %q", got)
	}
	if got := Sum(nil, 8); got != "ef46db37" {
		t.Errorf("truncated: got %q", got)
	}
}

func TestFile_MatchesSum(t *testing.T) {
	data := []byte("\xff\xd8 not really a jpeg \xff\xd9")
	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := File(path, HexLen)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if want := Sum(data, HexLen); got != want {
		t.Errorf("hash: got %q, want %q", got, want)
	}
	if len(got) != HexLen {
		t.Errorf("length: got %d, want %d", len(got), HexLen)
	}
}

func TestFile_Missing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope"), HexLen); err == nil {
		t.Fatal("expected error for missing file")
	}
}
