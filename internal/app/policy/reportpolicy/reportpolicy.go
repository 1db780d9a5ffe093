// Package reportpolicy decides which report status changes a caller may make.
//
// Rules:
//   - Status only moves forward: draft → generated → submitted.
//   - Setting the current status again is allowed and changes nothing.
//   - Admins may move a report backward (for example to reopen a submitted
//     report for corrections).
package reportpolicy

import (
	"errors"
	"fmt"

	"github.com/dalemusser/skprofiles/internal/domain/models"
)

// ErrUnknownStatus is returned for a target status outside the lifecycle.
var ErrUnknownStatus = errors.New("unknown report status")

// TransitionError describes a refused status change.
type TransitionError struct {
	From models.ReportStatus
	To   models.ReportStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("report status cannot move from %s to %s", e.From, e.To)
}

// CanTransition reports whether a non-admin may move a report from one status
// to another.
func CanTransition(from, to models.ReportStatus) bool {
	if !to.Valid() {
		return false
	}
	// Legacy rows may carry an empty or unknown status; treat them as draft.
	fr := from.Rank()
	if fr < 0 {
		fr = 0
	}
	return to.Rank() >= fr
}

// CheckTransition returns nil when the change is allowed for the caller.
func CheckTransition(from, to models.ReportStatus, isAdmin bool) error {
	if !to.Valid() {
		return ErrUnknownStatus
	}
	if isAdmin || CanTransition(from, to) {
		return nil
	}
	return &TransitionError{From: from, To: to}
}
