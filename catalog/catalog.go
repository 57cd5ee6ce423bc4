// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

type snapshot map[string][]string

// Catalog maps nominations to their allowed nominee lists. Lookups read an
// immutable snapshot; Reload builds a new snapshot and swaps it in atomically,
// so readers see either the old catalog or the new one, never a mix.
type Catalog struct {
	current atomic.Pointer[snapshot]
}

func New() *Catalog {
	c := &Catalog{}
	empty := snapshot{}
	c.current.Store(&empty)
	return c
}

// Reload replaces the catalog from the given file. Fails soft: on a missing
// or unreadable file the previous snapshot stays live and the error is only
// logged. A missing file on first load simply means an empty catalog.
func (c *Catalog) Reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("nominees file not found, keeping current catalog", "path", path)
		} else {
			slog.Error("failed to read nominees file", "path", path, "error", err)
		}
		return
	}

	parsed := snapshot(Parse(string(data)))
	c.current.Store(&parsed)

	for nomination, nominees := range parsed {
		slog.Info("loaded nominees", "nomination", nomination, "count", len(nominees))
	}
}

// Parse reads the newline-delimited nominee source. Blocks are separated by
// a blank line; the first line of a block names the nomination and must end
// with a colon; the remaining non-empty, non-comment lines are nominees in
// order. Blocks that yield no nominees are dropped.
func Parse(content string) map[string][]string {
	out := map[string][]string{}

	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")

		header := strings.TrimSpace(lines[0])
		if !strings.HasSuffix(header, ":") {
			continue
		}
		nomination := strings.TrimSpace(strings.TrimSuffix(header, ":"))

		var nominees []string
		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
				continue
			}
			nominees = append(nominees, line)
		}

		if len(nominees) > 0 {
			out[nomination] = nominees
		}
	}

	return out
}

// splitBlocks splits on blank lines (lines that are empty after trimming).
func splitBlocks(content string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// IsAllowed reports whether nominee is in the nomination's curated list.
// A nomination with no curated list allows anything: deliberate open-world
// fallback for nominations that take free-text entries only.
func (c *Catalog) IsAllowed(nomination, nominee string) bool {
	snap := *c.current.Load()
	allowed, ok := snap[nomination]
	if !ok {
		return true
	}
	for _, n := range allowed {
		if n == nominee {
			return true
		}
	}
	return false
}

// Search returns up to limit nominees of the nomination whose names contain
// query, case-insensitively, in catalog order. Queries shorter than two
// characters return nothing - a one-letter query is just list enumeration.
// Counted in runes, so a single non-ASCII letter doesn't slip through.
func (c *Catalog) Search(nomination, query string, limit int) []string {
	if utf8.RuneCountInString(query) < 2 {
		return nil
	}

	snap := *c.current.Load()
	queryLower := strings.ToLower(query)

	var results []string
	for _, nominee := range snap[nomination] {
		if strings.Contains(strings.ToLower(nominee), queryLower) {
			results = append(results, nominee)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}
