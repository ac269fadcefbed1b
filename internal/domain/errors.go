package domain

import "errors"

var (
	// ErrNoAccountSelected marks a mutating trade operation attempted while
	// the user has no current account. Recoverable; callers decide whether
	// to surface or quietly skip.
	ErrNoAccountSelected = errors.New("no account selected")

	// ErrAccountNotFound marks a reference to an account outside the user's
	// owned set.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTradeNotFound marks an edit targeted at an unknown trade. Prior
	// state is left unchanged.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrCollaboratorUnavailable marks a failed call to an external
	// identity or storage collaborator. Prior state is preserved; retries
	// are a caller policy.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrUserExists marks a registration for an email that is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound marks a lookup for an unknown user identifier or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials marks a login with a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
