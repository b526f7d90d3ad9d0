package toolkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// deniedSubstrings is the built-in destructive-command denylist. A match is
// a hard stop before any shell invocation and can never be confirmed away.
var deniedSubstrings = []string{
	"rm -rf",
	"rm -fr",
	"del /f",
	"format",
	"fdisk",
	"mkfs",
	"dd if=",
}

// ExecOutput carries captured process output.
type ExecOutput struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// CheckCommand reports the denylisted substring a command contains, if any.
func (t *Toolkit) CheckCommand(command string) (string, bool) {
	lower := strings.ToLower(command)
	for _, deny := range deniedSubstrings {
		if strings.Contains(lower, deny) {
			return deny, false
		}
	}
	for _, deny := range t.denied {
		if deny != "" && strings.Contains(lower, strings.ToLower(deny)) {
			return deny, false
		}
	}
	return "", true
}

// ExecuteCommand runs a command through the host shell with a wall-clock
// timeout. Success requires a zero exit code; a timeout is a distinct
// error, never conflated with a non-zero exit.
func (t *Toolkit) ExecuteCommand(ctx context.Context, command, workingDir string, timeout time.Duration) Result {
	if !t.allowExec {
		return t.record("execute_command", Fail("command execution is disabled (tools.allow_exec)"))
	}

	if strings.TrimSpace(command) == "" {
		return t.record("execute_command", Fail("no command provided"))
	}

	if deny, ok := t.CheckCommand(command); !ok {
		t.logger.Warn("blocked destructive command",
			zap.String("command", command),
			zap.String("matched", deny),
		)
		return t.record("execute_command", Fail("command blocked: contains destructive pattern %q", deny))
	}

	if timeout <= 0 {
		timeout = t.execTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return t.record("execute_command", Fail("command timed out after %s", timeout))
	}

	out := ExecOutput{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return t.record("execute_command", Result{
				Success: false,
				Data:    out,
				Error:   fmt.Sprintf("command exited with status %d", out.ExitCode),
			})
		}
		return t.record("execute_command", Fail("run command: %v", err))
	}

	return t.record("execute_command", OK(out, "command succeeded"))
}
