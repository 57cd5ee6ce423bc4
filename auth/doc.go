// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin password check.

Admin elevation is gated by a single shared secret, compared in constant
time:

	if err := auth.CheckAdminPassword(req.Password, cfg.AdminPassword); err != nil {
		// 401
	}
*/
package auth
