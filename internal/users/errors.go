package users

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrUserExists              = errors.New("user with this email or UID already exists")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrRoleMismatch            = errors.New("role does not match account")
	ErrIncorrectPassword       = errors.New("incorrect password")
	ErrCurrentPasswordRequired = errors.New("current password is required to change password")
	ErrPasswordTooShort        = errors.New("new password must be at least 6 characters")
	ErrCannotDeleteAdmin       = errors.New("cannot delete admin users")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
