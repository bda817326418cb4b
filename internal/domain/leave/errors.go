package leave

import "errors"

var (
	ErrRequestNotFound         = errors.New("Leave request not found")
	ErrBalanceNotFound         = errors.New("Leave balance not found")
	ErrInsufficientBalance     = errors.New("Insufficient leave balance")
	ErrRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrDuplicateBalance        = errors.New("Leave balance already exists")
	ErrOverlappingRequest      = errors.New("Overlapping leave request exists")
	ErrInvalidDateRange        = errors.New("End date must not be before start date")
	ErrNotRequestOwner         = errors.New("Leave request belongs to another user")
)
