package jpegtran

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrSpawnFailure is returned by Save when the jpegtran process could not
// be started at all (not found, not executable).
var ErrSpawnFailure = errors.New("cannot start jpegtran")

// Result is the outcome of one jpegtran run.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Success reports whether jpegtran exited with status 0.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// Save runs jpegtran, writing the transformed image to outPath, and waits
// for it to finish. A non-zero exit status is not an error; inspect
// Result.ExitCode and Result.Stderr.
func (t Transform) Save(outPath string) (*Result, error) {
	args := t.Args(outPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Args:     args,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSpawnFailure, args[0], err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

// LookPath resolves the configured binary in PATH.
func (s Settings) LookPath() (string, error) {
	path, err := exec.LookPath(s.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSpawnFailure, err)
	}
	return path, nil
}
