// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admission

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/models"
)

// ErrInvalidNominee: empty custom nominee, or one outside the nomination's
// curated list. Raised before the ledger is touched.
var ErrInvalidNominee = errors.New("admission: invalid nominee")

// Mirror is the slice of the exporter the service uses. Calls happen only
// after the ledger transaction committed; errors are logged and swallowed
// here and nowhere else.
type Mirror interface {
	AppendVote(v models.Vote) error
	ReplaceVote(telegramID int64, nomination string, v models.Vote) error
}

// Service orchestrates one vote submission: validation, catalog lookup,
// ledger transaction, best-effort mirror update.
type Service struct {
	ledger  *ledger.Store
	catalog *catalog.Catalog
	mirror  Mirror
}

func New(l *ledger.Store, c *catalog.Catalog, m Mirror) *Service {
	return &Service{ledger: l, catalog: c, mirror: m}
}

// Vote admits a catalog-selected (or pre-wrapped custom) vote.
func (s *Service) Vote(ctx context.Context, req models.VoteRequest) (models.Outcome, error) {
	display := req.Nominee
	if req.IsCustom {
		display = models.CustomNomineeDisplay(req.Nominee)
	}

	outcome, err := s.ledger.RecordVote(ctx, req.Identity(), req.Nomination, display, req.IsCustom, req.RequestID)
	if err != nil {
		return 0, err
	}
	if outcome == models.OutcomeAccepted {
		s.mirrorAppend(req.Identity(), req.Nomination, display, req.IsCustom)
	}
	return outcome, nil
}

// Revote supersedes the voter's prior vote in the nomination.
func (s *Service) Revote(ctx context.Context, req models.VoteRequest) (models.Outcome, error) {
	display := req.Nominee
	if req.IsCustom {
		display = models.CustomNomineeDisplay(req.Nominee)
	}

	outcome, err := s.ledger.ReviseVote(ctx, req.Identity(), req.Nomination, display, req.IsCustom, req.RequestID)
	if err != nil {
		return 0, err
	}
	if outcome == models.OutcomeAccepted {
		s.mirrorReplace(req.Identity(), req.Nomination, display, req.IsCustom)
	}
	return outcome, nil
}

// VoteCustom admits a free-text vote. The phantom filter runs first (a
// phantom is dropped even when its nominee would be invalid), then the
// nominee is validated against the catalog before any ledger access.
func (s *Service) VoteCustom(ctx context.Context, req models.CustomVoteRequest) (models.Outcome, error) {
	if !req.Identity().Valid() {
		return models.OutcomePhantom, nil
	}
	if err := s.validateCustom(req.Nomination, req.CustomNominee); err != nil {
		return 0, err
	}

	display := models.CustomNomineeDisplay(req.CustomNominee)
	outcome, err := s.ledger.RecordVote(ctx, req.Identity(), req.Nomination, display, true, req.RequestID)
	if err != nil {
		return 0, err
	}
	if outcome == models.OutcomeAccepted {
		s.mirrorAppend(req.Identity(), req.Nomination, display, true)
	}
	return outcome, nil
}

// RevoteCustom supersedes with a free-text vote.
func (s *Service) RevoteCustom(ctx context.Context, req models.CustomVoteRequest) (models.Outcome, error) {
	if !req.Identity().Valid() {
		return models.OutcomePhantom, nil
	}
	if err := s.validateCustom(req.Nomination, req.CustomNominee); err != nil {
		return 0, err
	}

	display := models.CustomNomineeDisplay(req.CustomNominee)
	outcome, err := s.ledger.ReviseVote(ctx, req.Identity(), req.Nomination, display, true, req.RequestID)
	if err != nil {
		return 0, err
	}
	if outcome == models.OutcomeAccepted {
		s.mirrorReplace(req.Identity(), req.Nomination, display, true)
	}
	return outcome, nil
}

func (s *Service) validateCustom(nomination, nominee string) error {
	if strings.TrimSpace(nominee) == "" {
		return ErrInvalidNominee
	}
	if !s.catalog.IsAllowed(nomination, nominee) {
		return ErrInvalidNominee
	}
	return nil
}

func (s *Service) mirrorAppend(id models.Identity, nomination, display string, isCustom bool) {
	if err := s.mirror.AppendVote(mirrorVote(id, nomination, display, isCustom)); err != nil {
		slog.Warn("mirror append failed", "nomination", nomination, "error", err)
	}
}

func (s *Service) mirrorReplace(id models.Identity, nomination, display string, isCustom bool) {
	err := s.mirror.ReplaceVote(*id.TelegramID, nomination, mirrorVote(id, nomination, display, isCustom))
	if err != nil {
		slog.Warn("mirror replace failed", "nomination", nomination, "error", err)
	}
}

func mirrorVote(id models.Identity, nomination, display string, isCustom bool) models.Vote {
	return models.Vote{
		Username:   id.Username,
		TelegramID: id.TelegramID,
		Nomination: nomination,
		Nominee:    display,
		IsCustom:   isCustom,
	}
}
