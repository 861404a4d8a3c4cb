package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("no active session")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("action not allowed for this role")
	ErrRoleAssigned        = errors.New("role already assigned")
	ErrNoWallet            = errors.New("no active wallet")
	ErrInvalidAmount       = errors.New("coin amount must be positive")
	ErrAlreadyClaimedToday = errors.New("already claimed today")
	ErrNoDietPreference    = errors.New("diet preference not set")
	ErrPrescriptionExists  = errors.New("prescription already attached")
	ErrLocationBusy        = errors.New("location lookup already in progress")
)

func validationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
