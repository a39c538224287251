package services

import "errors"

// Engine errors. Every rejected operation rolls its transaction back, so a
// caller seeing one of these can assume no entity changed.
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrPackageInactive         = errors.New("package is not active")
	ErrPackageExpired          = errors.New("package has expired")
	ErrTaskNotEligible         = errors.New("task not eligible for this package")
	ErrDuplicateCompletion     = errors.New("task already completed today")
	ErrDailyCapReached         = errors.New("daily task limit reached")
	ErrPendingWithdrawalExists = errors.New("a pending withdrawal already exists")
	ErrNotFound                = errors.New("not found")
	ErrInvalidStateTransition  = errors.New("request is not pending")
	ErrInvalidKind             = errors.New("unknown transaction kind")
	ErrPhoneTaken              = errors.New("phone number already registered")
)
