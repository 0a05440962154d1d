// Package jpegtrantest provides a stand-in jpegtran executable for tests.
package jpegtrantest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// script mimics the parts of jpegtran the tests rely on: it fails with a
// message on stderr when the source is missing or when FAKE_JPEGTRAN_FAIL
// names the source's base name, echoes its arguments on stdout, and
// otherwise copies the source to the -outfile path.
const script = `#!/bin/sh
out=""
prev=""
src=""
for a in "$@"; do
	if [ "$prev" = "-outfile" ]; then out="$a"; fi
	prev="$a"
	src="$a"
done
if [ ! -f "$src" ]; then
	echo "jpegtran: can't open $src" >&2
	exit 1
fi
if [ -n "$FAKE_JPEGTRAN_FAIL" ] && [ "$(basename "$src")" = "$FAKE_JPEGTRAN_FAIL" ]; then
	echo "Corrupt JPEG data: premature end of data segment" >&2
	exit 2
fi
echo "$@"
if [ -n "$out" ]; then cp "$src" "$out"; fi
`

// Tool writes the fake jpegtran into a temp directory and returns its
// path. Tests are skipped on platforms without /bin/sh.
func Tool(t testing.TB) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake jpegtran needs /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "jpegtran")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake jpegtran: %v", err)
	}
	return path
}
