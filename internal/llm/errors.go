package llm

import "strings"

// FailureKind classifies gateway failures so the dispatcher can render a
// useful hint instead of a raw transport error.
type FailureKind string

const (
	FailureAuth      FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureNetwork   FailureKind = "network"
	FailureUnknown   FailureKind = "unknown"
)

// Classify inspects a gateway error and buckets it. Classification is by
// error text because upstream gateways report these conditions in their
// response bodies, not as distinct error types.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key"),
		strings.Contains(msg, "api_key"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "status 401"),
		strings.Contains(msg, "status 403"),
		strings.Contains(msg, "authentication"):
		return FailureAuth
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "status 429"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "quota"):
		return FailureRateLimit
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection refused"):
		return FailureNetwork
	}
	return FailureUnknown
}

// Hint returns operator guidance for a failure kind.
func Hint(kind FailureKind) string {
	switch kind {
	case FailureAuth:
		return "The gateway rejected the API key. Check the configured key or re-enter it with 'delete my api key' followed by a restart."
	case FailureRateLimit:
		return "The gateway is rate limiting requests. Wait a moment before retrying."
	case FailureNetwork:
		return "Could not reach the gateway. Check the network connection and the configured base URL."
	default:
		return ""
	}
}
