package captcha

import (
	"errors"
)

var (
	ErrInvalidCaptcha = errors.New("invalid captcha")
)

type CaptchaVerifier interface {
	Verify(token string, remoteIP string) error
}

type CaptchaError struct {
	message string
}

func (e *CaptchaError) Error() string {
	return e.message
}

func (e *CaptchaError) Is(target error) bool {
	if target == ErrInvalidCaptcha {
		return true
	}
	_, ok := target.(*CaptchaError)
	return ok
}

type NullVerifier struct{}

func (v *NullVerifier) Verify(token string, remoteIP string) error {
	return nil
}

func NewNullVerifier() *NullVerifier {
	return &NullVerifier{}
}
