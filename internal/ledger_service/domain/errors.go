package domain

import (
	"errors"
	"fmt"
)

var (
	ErrResellerNotFound     = errors.New("reseller not found")
	ErrBusinessUserNotFound = errors.New("business user not found")
	ErrMessageNotFound      = errors.New("message not found")

	// ErrNotOwned is returned when a reseller tries to fund a business user
	// that belongs to a different reseller.
	ErrNotOwned = errors.New("reseller does not own this business user")

	ErrInvalidAmount        = errors.New("credit amount must be a non-negative finite number")
	ErrUnknownDeliveryMode  = errors.New("unknown delivery mode")
	ErrMissingRecipient     = errors.New("recipient number is required")
	ErrDuplicateAccount     = errors.New("username or email already registered")

	// ErrWalletDrift indicates that a wallet's cumulative fields no longer
	// reconcile (total != available + used). Any operation that would commit
	// drifted balances is aborted.
	ErrWalletDrift = errors.New("wallet balances do not reconcile")
)

// InsufficientCreditsError reports a rejected operation whose amount exceeds
// the spendable balance, with enough context for the caller to act.
type InsufficientCreditsError struct {
	AccountID string
	Required  float64
	Available float64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits for account %s: required %.4f, available %.4f",
		e.AccountID, e.Required, e.Available)
}
