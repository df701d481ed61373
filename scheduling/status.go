package scheduling

import "errors"

// WorkStatus is the categorical service status carried on every service log.
type WorkStatus string

const (
	StatusNotStarted WorkStatus = "not_started"
	StatusInProgress WorkStatus = "in_progress"
	StatusCompleted  WorkStatus = "completed"
	StatusOnHold     WorkStatus = "on_hold"
)

// ErrInvalidProgress is returned for progress values outside 0-100.
var ErrInvalidProgress = errors.New("progress must be between 0 and 100")

// ErrInvalidStatus is returned for unknown status values.
var ErrInvalidStatus = errors.New("invalid service status")

// IsValidWorkStatus reports whether s is one of the four known statuses.
func IsValidWorkStatus(s WorkStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	default:
		return false
	}
}

// Reconcile keeps the 0-100 progress percentage and the categorical status
// mutually consistent.
//
// An explicit status from the employee wins: completed forces progress to 100,
// not_started forces it to 0, and on_hold / in_progress keep whatever progress
// accompanies the update (or the current value when none does). on_hold is a
// manual override - progress-only updates never move the status away from it;
// the employee must pick a different status to leave on_hold. For every other
// state a progress change derives the status: 0 is not_started, 100 is
// completed, anything between is in_progress.
//
// Calling Reconcile with neither a new progress nor a new status returns the
// inputs unchanged, so repeated identical calls are idempotent.
func Reconcile(current WorkStatus, currentProgress int, newProgress *int, newStatus *WorkStatus) (WorkStatus, int, error) {
	if !IsValidWorkStatus(current) {
		return "", 0, ErrInvalidStatus
	}
	if currentProgress < 0 || currentProgress > 100 {
		return "", 0, ErrInvalidProgress
	}
	if newProgress != nil && (*newProgress < 0 || *newProgress > 100) {
		return "", 0, ErrInvalidProgress
	}

	if newStatus != nil {
		if !IsValidWorkStatus(*newStatus) {
			return "", 0, ErrInvalidStatus
		}
		switch *newStatus {
		case StatusCompleted:
			return StatusCompleted, 100, nil
		case StatusNotStarted:
			return StatusNotStarted, 0, nil
		default: // on_hold, in_progress: progress is not auto-adjusted
			progress := currentProgress
			if newProgress != nil {
				progress = *newProgress
			}
			return *newStatus, progress, nil
		}
	}

	if newProgress == nil {
		return current, currentProgress, nil
	}

	// Progress-slider change. A manual on_hold sticks until the employee
	// explicitly chooses another status.
	if current == StatusOnHold {
		return StatusOnHold, *newProgress, nil
	}

	return statusForProgress(*newProgress), *newProgress, nil
}

// statusForProgress maps a percentage to its lockstep status.
func statusForProgress(progress int) WorkStatus {
	switch {
	case progress == 0:
		return StatusNotStarted
	case progress == 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
