// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog holds the nomination → allowed-nominees mapping.

# Source Format

The catalog loads from a newline-delimited text file. Blocks are separated
by blank lines; a block's first line names the nomination and ends with a
colon; the remaining lines are nominees in order. Lines starting with #
or // are comments. A block with no nominees is dropped.

	Best Actor:
	Alice
	Bob

	Best Film:
	# shortlist pending
	Movie X

# Snapshot Semantics

Reload parses the whole file into a fresh immutable snapshot and swaps it
in atomically; concurrent readers see the old catalog or the new one,
never a partial rebuild. Reload fails soft: an unreadable file leaves the
previous snapshot live and logs the error.

# Lookups

	cat.IsAllowed("Best Actor", "Alice")     // exact, case-sensitive
	cat.Search("Best Actor", "al", 10)       // substring, case-insensitive

IsAllowed returns true for any nominee when the nomination has no curated
list - the open-world fallback for free-text-only nominations.
*/
package catalog
