package verification

import "errors"

var (
	ErrInvalidCode    = errors.New("verification code is invalid or expired")
	ErrInvalidContact = errors.New("contact is not a valid phone number")
	ErrUserNotFound   = errors.New("user not found")
)
