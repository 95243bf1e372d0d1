package config

import "errors"

var (
	ErrMissingMasterKey = errors.New("masterKey is required")
)
