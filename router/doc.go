// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the nominations API.

# Route Registration

NewRouter wires the admission service and handlers onto an http.ServeMux:

	mux := router.NewRouter(store, cat, exporter, cfg)

# Endpoints

Health:

	GET /health

Identity:

	POST /register-user             - upsert registered identity
	GET  /user-votes/{telegram_id}  - nomination → nominee for one voter

Vote admission:

	POST /vote          - record a vote
	POST /revote        - supersede the prior vote
	POST /vote-custom   - record a free-text vote
	POST /revote-custom - supersede with a free-text vote

Results:

	GET  /results          - (nomination, nominee, count) aggregate
	POST /search-nominees  - substring search within a nomination

Admin (requires X-Telegram-ID on the allowlist):

	GET  /admin/votes            - full ledger listing
	GET  /admin/users            - registered users
	POST /admin/clean-votes      - purge malformed rows
	POST /admin/reload-nominees  - reload the catalog file
	GET  /admin/download-data    - zip of mirrors + SQL dump

Admin elevation:

	POST /admin/add   - password-gated elevation
	GET  /admin/check - allowlist probe
*/
package router
