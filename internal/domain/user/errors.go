package user

import "errors"

var (
	ErrUserNotFound          = errors.New("User not found")
	ErrManagerNotFound       = errors.New("Manager not found for user")
	ErrInvalidToken          = errors.New("Invalid or missing token")
	ErrManagerAccessRequired = errors.New("Manager access required")
	ErrAdminAccessRequired   = errors.New("Admin access required")
)
