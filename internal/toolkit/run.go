package toolkit

import (
	"context"
	"fmt"
)

// RunOutcome carries captured output from executing a source file.
type RunOutcome struct {
	Output    string `json:"output"`
	ErrorInfo string `json:"error_info,omitempty"`
}

// RunFile executes a source file through the interpreter matching its
// extension. A crash or timeout inside the program is returned as data in
// ErrorInfo, not as a toolkit failure, so the dispatcher can offer a fix.
func (t *Toolkit) RunFile(ctx context.Context, filename string) Result {
	if filename == "" {
		return t.record("run", Fail("no filename provided"))
	}
	if t.runner == nil {
		return t.record("run", Fail("execution is disabled"))
	}

	res, err := t.runner.Run(ctx, filename)
	if err != nil {
		return t.record("run", Fail("run %s: %v", filename, err))
	}

	outcome := RunOutcome{Output: res.Output, ErrorInfo: res.ErrorInfo}
	if res.ErrorInfo != "" {
		return t.record("run", Result{
			Success: false,
			Data:    outcome,
			Error:   fmt.Sprintf("%s failed: %s", filename, res.ErrorInfo),
		})
	}
	return t.record("run", OK(outcome, fmt.Sprintf("%s ran successfully", filename)))
}
