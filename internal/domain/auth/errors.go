package auth

import "errors"

var (
	ErrInvalidPIN       = errors.New("incorrect admin PIN")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrAdminRequired    = errors.New("admin session required")
	ErrSettingsNotFound = errors.New("kiosk settings not found")
)
