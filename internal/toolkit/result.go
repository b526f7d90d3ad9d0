package toolkit

import "fmt"

// Result is the uniform envelope returned by every toolkit operation.
// Failures carry a non-empty Error. Benign negative outcomes (a declined
// confirmation, an empty search) carry Success=false with a Message and no
// Error, so callers can distinguish "went wrong" from "nothing to do".
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK builds a success result.
func OK(data interface{}, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

// Fail builds a failure result.
func Fail(format string, args ...interface{}) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Declined builds a non-error negative result, used when the user cancels a
// proposed change or an operation finds nothing to act on.
func Declined(message string) Result {
	return Result{Success: false, Message: message}
}
