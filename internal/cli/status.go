package cli

import (
	"fmt"

	"github.com/sdejongh/docrecon/pkg/models"
)

// StatusError reports a run that finished without full success.
// The report has already been printed; main only needs the exit code.
type StatusError struct {
	Status models.RunStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("run finished with status %s", e.Status)
}

// ExitCode returns the process exit code for the status
func (e *StatusError) ExitCode() int {
	return e.Status.ExitCode()
}

// statusResult returns nil for success and a StatusError otherwise
func statusResult(status models.RunStatus) error {
	if status == models.StatusSuccess {
		return nil
	}
	return &StatusError{Status: status}
}
