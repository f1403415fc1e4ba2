package service

import (
	"errors"
	"fmt"

	"tsinda/internal/access"
)

// Sentinel errors shared across services. Handlers translate these into
// HTTP statuses; remote-store failures are wrapped and logged at the
// call site, never retried.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrPlanNotFound    = errors.New("plan not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrQuizNotFound    = errors.New("quiz not found")

	// ErrInvalidAttemptWindow rejects a submission whose reported start
	// lies after its completion instant.
	ErrInvalidAttemptWindow = errors.New("attempt started after completion")
)

// AccessDeniedError reports a denied entitlement or attempt-gate
// decision together with its single reason code.
type AccessDeniedError struct {
	Reason access.Reason
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}
