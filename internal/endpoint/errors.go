// Package endpoint resolves endpoint configurations, credentials and model
// lists for the configured AI providers.
package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies endpoint errors so callers can pick a recovery strategy.
type Kind int

const (
	// KindConfig covers missing or unusable configuration; fatal for the
	// affected operation.
	KindConfig Kind = iota
	// KindValidation covers a bad URL, key or command in an endpoint
	// section; scoped to that endpoint.
	KindValidation
	// KindSecurity marks a command that failed validation. Such a command
	// is never executed under any fallback path.
	KindSecurity
	// KindTimeout marks a fetch that exceeded its deadline; recoverable via
	// cache fallback.
	KindTimeout
	// KindExec marks a fetch that failed to spawn or was interrupted;
	// recoverable via cache fallback.
	KindExec
	// KindCache marks an unreadable or corrupt cache file; treated as a
	// cache miss, never fatal.
	KindCache
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindSecurity:
		return "security"
	case KindTimeout:
		return "timeout"
	case KindExec:
		return "exec"
	case KindCache:
		return "cache"
	}
	return "unknown"
}

// Severity grades how loudly an error should be reported.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Error is the structured error type of the endpoint layer. It carries the
// failing endpoint and command for context plus actionable suggestions for
// the user; stack traces are never shown.
type Error struct {
	Kind        Kind
	Severity    Severity
	Message     string
	Endpoint    string
	Command     string
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", strings.ToUpper(string(e.Severity)), e.Message)
	if e.Endpoint != "" {
		msg += fmt.Sprintf(" (endpoint: %s)", e.Endpoint)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detailed renders the error with its context and suggestions, one per line.
func (e *Error) Detailed() string {
	lines := []string{e.Error()}
	if e.Command != "" {
		lines = append(lines, "Command: "+e.Command)
	}
	if len(e.Suggestions) > 0 {
		lines = append(lines, "", "Suggestions:")
		for _, s := range e.Suggestions {
			lines = append(lines, "  • "+s)
		}
	}
	return strings.Join(lines, "\n")
}

// IsKind reports whether err is an endpoint *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
