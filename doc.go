// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the nominations API server.

The server is a nomination-voting backend: registered users cast one vote
per award category, optionally proposing a free-text nominee, and
administrators audit, export and clean the vote ledger.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:votes.db ADMIN_PASSWORD=... go run main.go

Or with flags:

	go run main.go -p 8000 -d "file:votes.db" -admin-password ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or postgres connection string
  - ADMIN_PASSWORD (-admin-password): shared secret for admin elevation

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - NOMINEES_FILE (-nominees): allowed-nominees file (default: allowed_nominees.txt)
  - DATA_DIR (-data-dir): mirror workbook directory (default: .)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: the authoritative, transactional vote store
  - catalog: atomically swapped nominee snapshot
  - mirror: best-effort xlsx export of votes and users
  - admission: vote orchestration (validation → ledger → mirror)
  - handlers: HTTP request handlers (voting, users, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin password check
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
