// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8000)
  - DatabaseURL: sqlite path or postgres connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminPassword: shared secret for admin elevation (required)
  - NomineesFile: allowed-nominees text file (default: allowed_nominees.txt)
  - DataDir: directory holding votes.xlsx / users.xlsx (default: .)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-nominees       Allowed-nominees file
	-data-dir       Mirror export directory
	-admin-password Admin elevation password

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	NOMINEES_FILE  → -nominees
	DATA_DIR       → -data-dir
	ADMIN_PASSWORD → -admin-password

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or ADMIN_PASSWORD is missing,
or if DATABASE_TYPE names an unknown driver.
*/
package cliparse
