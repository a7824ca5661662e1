package cli

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// FindingsError reports a run that produced diagnostics.
type FindingsError struct {
	Count int
}

func (e *FindingsError) Error() string {
	if e.Count == 1 {
		return "1 diagnostic reported"
	}
	return fmt.Sprintf("%d diagnostics reported", e.Count)
}

// ExitCode maps a RunLint error to a process exit status: 0 on success, the
// diagnostic count clamped to 1..255 for findings, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var findings *FindingsError
	if !errors.As(err, &findings) {
		return 1
	}
	if findings.Count <= 0 {
		return 0
	}
	code, convErr := safecast.Conv[uint8](findings.Count)
	if convErr != nil {
		return 255
	}
	return int(code)
}
