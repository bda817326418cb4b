package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("Holiday not found")
	ErrDuplicateDate   = errors.New("Holiday already exists on that date")
)
