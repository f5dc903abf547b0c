package reset

import (
	"context"
	"errors"
	"fmt"

	"admin-password-reset/users"
)

// Service runs a single password reset against a user store.
type Service struct {
	store     Store
	hasher    PasswordHasher
	confirmer Confirmer
	report    *Reporter
}

func NewService(store Store, hasher PasswordHasher, confirmer Confirmer, report *Reporter) *Service {
	return &Service{
		store:     store,
		hasher:    hasher,
		confirmer: confirmer,
		report:    report,
	}
}

// Run looks up req.Username, asks for confirmation, replaces the stored hash
// and reads it back to check that req.NewPassword verifies against it.
//
// Every failure is returned as a *StepError. Not-found, cancellation,
// zero-effect updates and verification mismatches wrap the matching sentinel
// error and have already been reported to the operator.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	user, err := s.store.FindByUsername(ctx, req.Username)
	if errors.Is(err, users.ErrNotFound) {
		available, listErr := s.store.ListUsers(ctx)
		if listErr != nil {
			return Result{}, &StepError{Step: StepLookup, Err: listErr}
		}
		s.report.UserNotFound(req.Username, available)
		return Result{}, &StepError{Step: StepLookup, Err: fmt.Errorf("%w: %s", ErrUserNotFound, req.Username)}
	} else if err != nil {
		return Result{}, &StepError{Step: StepLookup, Err: err}
	}

	s.report.FoundUser(user, s.hasher.Describe(user.HashedPassword), s.hasher.NeedsRehash(user.HashedPassword))
	result := Result{User: user, OldHash: user.HashedPassword}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return result, &StepError{Step: StepHash, Err: err}
	}
	result.NewHash = newHash

	s.report.AboutToUpdate(req.Username)
	ok, err := s.confirmer.Confirm(ctx, fmt.Sprintf("Type '%s' to continue:", ConfirmationToken))
	if err != nil {
		return result, &StepError{Step: StepConfirm, Err: err}
	}
	if !ok {
		s.report.Cancelled()
		return result, &StepError{Step: StepConfirm, Err: ErrCancelled}
	}

	updated, err := s.store.UpdatePasswordHash(ctx, req.Username, newHash)
	if err != nil {
		return result, &StepError{Step: StepUpdate, Err: err}
	}
	result.Modified = updated.Modified
	if updated.Modified != 1 {
		s.report.NoChanges(updated.Matched)
		return result, &StepError{Step: StepUpdate, Err: fmt.Errorf("%w: matched %d, modified %d", ErrNoChanges, updated.Matched, updated.Modified)}
	}
	s.report.Updated(newHash)

	stored, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		return result, &StepError{Step: StepVerify, Err: err}
	}
	if !s.hasher.Verify(req.NewPassword, stored.HashedPassword) {
		s.report.VerificationFailed()
		return result, &StepError{Step: StepVerify, Err: ErrVerificationFailed}
	}
	s.report.Verified()

	return result, nil
}
