// Package runner executes a source file in a fresh interpreter subprocess
// and captures its output.
//
// LIMITATION: this is not a sandbox. The child process runs with the full
// file-system and network privileges of the host process. The fresh process
// only guarantees that top-level names and state do not leak between runs.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// interpreters maps a file extension to the command that runs it.
var interpreters = map[string][]string{
	".go": {"go", "run"},
	".py": {"python3"},
	".js": {"node"},
	".rb": {"ruby"},
	".sh": {"sh"},
}

// Result carries captured output from one run. ErrorInfo is empty when the
// process exited cleanly; otherwise it holds the failure kind, message, and
// whatever the process wrote to stderr before faulting.
type Result struct {
	Output    string
	ErrorInfo string
}

// Runner executes source files with a wall-clock timeout.
type Runner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// New constructs a Runner.
func New(timeout time.Duration, logger *zap.Logger) *Runner {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{timeout: timeout, logger: logger}
}

// Supports reports whether files with the given extension can be run.
func Supports(ext string) bool {
	_, ok := interpreters[strings.ToLower(ext)]
	return ok
}

// Command returns the interpreter binary for an extension, for availability
// checks.
func Command(ext string) (string, bool) {
	argv, ok := interpreters[strings.ToLower(ext)]
	if !ok {
		return "", false
	}
	return argv[0], true
}

// Run executes the file and returns captured output. The error return is
// reserved for invocation problems (unsupported extension, missing
// interpreter); a failing or timed-out program is reported through
// Result.ErrorInfo so the caller can render it as data.
func (r *Runner) Run(ctx context.Context, path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	argv, ok := interpreters[ext]
	if !ok {
		return Result{}, fmt.Errorf("no interpreter registered for %q files", ext)
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return Result{}, fmt.Errorf("interpreter %q not found: %w", argv[0], err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, argv[1:]...), path)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("run finished",
		zap.String("file", path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("failed", err != nil),
	)

	if err == nil {
		return Result{Output: stdout.String() + stderr.String()}, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{
			Output:    stdout.String(),
			ErrorInfo: fmt.Sprintf("timeout: execution exceeded %s", r.timeout),
		}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{
			Output:    stdout.String(),
			ErrorInfo: fmt.Sprintf("exit status %d: %s\n%s", exitErr.ExitCode(), err.Error(), stderr.String()),
		}, nil
	}

	return Result{
		Output:    stdout.String(),
		ErrorInfo: fmt.Sprintf("%T: %s\n%s", err, err.Error(), stderr.String()),
	}, nil
}
