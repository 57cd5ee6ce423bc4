// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
)

var ErrInvalidPassword = errors.New("invalid admin password")

// CheckAdminPassword compares the supplied password against the configured
// shared secret in constant time.
func CheckAdminPassword(supplied, expected string) error {
	if !hmac.Equal([]byte(supplied), []byte(expected)) {
		return ErrInvalidPassword
	}
	return nil
}
