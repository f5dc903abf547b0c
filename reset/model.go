package reset

import (
	"context"
	"errors"
	"fmt"

	"admin-password-reset/authentication"
	"admin-password-reset/users"
)

// ConfirmationToken must be typed (any case) to authorise the update.
const ConfirmationToken = "YES"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCancelled          = errors.New("update cancelled")
	ErrNoChanges          = errors.New("no changes made")
	ErrVerificationFailed = errors.New("hash verification failed")
)

type Step string

const (
	StepLookup  Step = "lookup"
	StepHash    Step = "hash"
	StepConfirm Step = "confirm"
	StepUpdate  Step = "update"
	StepVerify  Step = "verify"
)

// StepError records which step of the run failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsStoreFailure reports whether err is a database error raised during
// lookup, update or verification, as opposed to one of the flow's own outcomes.
func IsStoreFailure(err error) bool {
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		return false
	}
	switch stepErr.Step {
	case StepLookup, StepUpdate, StepVerify:
		return !isReportedOutcome(err)
	}
	return false
}

func isReportedOutcome(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrCancelled) ||
		errors.Is(err, ErrNoChanges) || errors.Is(err, ErrVerificationFailed)
}

type Store interface {
	FindByUsername(ctx context.Context, username string) (users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) (users.UpdateResult, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Describe(hash string) authentication.HashInfo
	NeedsRehash(hash string) bool
}

// Confirmer asks the operator whether to go ahead.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type Request struct {
	Username    string
	NewPassword string
}

type Result struct {
	User     users.User
	OldHash  string
	NewHash  string
	Modified int64
}
