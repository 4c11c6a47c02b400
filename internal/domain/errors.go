package domain

import (
	"errors"
	"fmt"
	"time"
)

// Recoverable, user-facing errors. Handlers map these to HTTP statuses;
// none of them should ever crash the process.
var (
	ErrNotEligible            = errors.New("not eligible")
	ErrBelowMinimum           = errors.New("amount below minimum")
	ErrAboveMaximum           = errors.New("amount above maximum")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrAlreadyReviewed        = errors.New("already reviewed")
	ErrCooldownActive         = errors.New("mining cooldown active")
	ErrNotFound               = errors.New("not found")
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	ErrFeeAlreadyPaid         = errors.New("withdrawal fee already paid")
)

// CooldownError reports how long until the next claim is allowed.
// errors.Is(err, ErrCooldownActive) matches it.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	h := int(e.Remaining.Hours())
	m := int(e.Remaining.Minutes()) % 60
	return fmt.Sprintf("please wait %dh %dm before mining again", h, m)
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}
