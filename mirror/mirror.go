// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/streamnight/nominations/models"
)

const (
	VotesFile = "votes.xlsx"
	UsersFile = "users.xlsx"

	timeLayout = "2006-01-02 15:04:05"
)

var votesHeader = []interface{}{"Telegram ID", "Username", "Nomination", "Nominee", "Voted At"}
var usersHeader = []interface{}{"Telegram ID", "Username", "First Name", "Last Name", "Registered At"}

// Exporter maintains the tabular xlsx mirror of the ledger. Every method
// returns its error to the caller; the admission service is the one place
// that decides mirror failures are logged and swallowed. The mutex keeps
// the exporter single-writer; each call reopens the workbook, so content
// written before a failure is never corrupted by it.
type Exporter struct {
	mu        sync.Mutex
	votesPath string
	usersPath string
}

// New creates the exporter and both workbooks (with header rows) if they
// don't exist yet.
func New(dataDir string) (*Exporter, error) {
	e := &Exporter{
		votesPath: filepath.Join(dataDir, VotesFile),
		usersPath: filepath.Join(dataDir, UsersFile),
	}
	if err := ensureWorkbook(e.votesPath, votesHeader); err != nil {
		return nil, err
	}
	if err := ensureWorkbook(e.usersPath, usersHeader); err != nil {
		return nil, err
	}
	return e, nil
}

func ensureWorkbook(path string, header []interface{}) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// AppendVote adds one vote row to the votes workbook.
func (e *Exporter) AppendVote(v models.Vote) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return withWorkbook(e.votesPath, func(f *excelize.File, sheet string, rows [][]string) error {
		return f.SetSheetRow(sheet, cellA(len(rows)+1), voteRow(v))
	})
}

// ReplaceVote removes the row matching (telegramID, nomination), if any,
// and appends the new vote. Used after a revote supersedes a ledger row.
func (e *Exporter) ReplaceVote(telegramID int64, nomination string, v models.Vote) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return withWorkbook(e.votesPath, func(f *excelize.File, sheet string, rows [][]string) error {
		key := strconv.FormatInt(telegramID, 10)
		removed := 0
		for i := 1; i < len(rows); i++ { // skip header
			if cell(rows[i], 0) == key && cell(rows[i], 2) == nomination {
				if err := f.RemoveRow(sheet, i+1); err != nil {
					return err
				}
				removed = 1
				break
			}
		}
		return f.SetSheetRow(sheet, cellA(len(rows)+1-removed), voteRow(v))
	})
}

// UpsertUser updates the row for the user's telegram id in place, or
// appends one when the user is new.
func (e *Exporter) UpsertUser(u models.RegisterUserRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return withWorkbook(e.usersPath, func(f *excelize.File, sheet string, rows [][]string) error {
		row := &[]interface{}{u.TelegramID, u.Username, u.FirstName, u.LastName, time.Now().Format(timeLayout)}
		key := strconv.FormatInt(u.TelegramID, 10)
		for i := 1; i < len(rows); i++ {
			if cell(rows[i], 0) == key {
				return f.SetSheetRow(sheet, cellA(i+1), row)
			}
		}
		return f.SetSheetRow(sheet, cellA(len(rows)+1), row)
	})
}

// withWorkbook opens the workbook, hands the first sheet and its rows to fn,
// and saves if fn succeeds.
func withWorkbook(path string, fn func(f *excelize.File, sheet string, rows [][]string) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if err := fn(f, sheet, rows); err != nil {
		return err
	}
	return f.Save()
}

func voteRow(v models.Vote) *[]interface{} {
	var telegramID interface{}
	if v.TelegramID != nil {
		telegramID = *v.TelegramID
	}
	return &[]interface{}{telegramID, v.Username, v.Nomination, v.Nominee, time.Now().Format(timeLayout)}
}

func cellA(row int) string {
	return fmt.Sprintf("A%d", row)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
