// The food-entry workflow. A free-text utterance is parsed, resolved and
// logged; when resolution fails the verbatim text is captured as a
// FoodRequest so an administrator can extend the catalog and replay it
// later. Replay runs the stored utterance through the exact same pipeline on
// behalf of the original requesting user; a replay that still fails simply
// opens a new request cycle. Requests are kept forever as an audit trail of
// what users actually typed.

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/parser"
	"github.com/nutrilog/nutrilog/internal/repo"
)

// EntryService drives the food-entry workflow end to end.
type EntryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Logs is the resolution engine entries are pushed through.
	Logs *LogService
	// Reports computes the running day totals returned with each entry.
	Reports *ReportService
}

// NewEntryService constructs an EntryService sharing the given engine and
// report service.
func NewEntryService(db *gorm.DB, logs *LogService, reports *ReportService) *EntryService {
	return &EntryService{DB: db, Logs: logs, Reports: reports}
}

// EntryOutcome describes what happened to one utterance. Exactly one of
// Resolved and Failure is set. On failure Request carries the stored
// deferred request the administrator can act on.
type EntryOutcome struct {
	// Entry is the parsed utterance.
	Entry parser.Entry
	// Resolved is set when the entry was logged.
	Resolved *Resolved
	// Remainder holds the targets minus the day's totals after logging.
	Remainder *Remainder
	// Failure is one of ErrFoodNotFound, ErrUnitNotFound, ErrUnitNotDefined.
	Failure error
	// Request is the captured deferred request, set when Failure is.
	Request *domain.FoodRequest
}

// HandleEntry parses, resolves and logs one utterance for the user on
// today's date. Parse failure returns ErrInvalidCommand. A resolution
// failure is not an error at this level: the request capture is the designed
// outcome, reported through EntryOutcome.Failure.
func (s *EntryService) HandleEntry(ctx context.Context, user *domain.User, text string) (*EntryOutcome, error) {
	entry, ok := parser.ParseEntry(text)
	if !ok {
		return nil, ErrInvalidCommand
	}

	out := &EntryOutcome{Entry: entry}
	resolved, err := s.Logs.LogFood(ctx, user.Locale, user, entry.Food, entry.Unit, entry.Qty, domain.Today(), text)
	switch {
	case err == nil:
		out.Resolved = resolved
		rem, err := s.Reports.Remainder(ctx, user, domain.Today())
		if err != nil {
			return nil, fmt.Errorf("day remainder: %w", err)
		}
		out.Remainder = rem
		return out, nil
	case errors.Is(err, ErrFoodNotFound), errors.Is(err, ErrUnitNotFound), errors.Is(err, ErrUnitNotDefined):
		fr, reqErr := repo.CreateFoodRequest(ctx, s.DB, user.ID, text)
		if reqErr != nil {
			return nil, fmt.Errorf("capture request: %w", reqErr)
		}
		out.Failure = err
		out.Request = fr
		return out, nil
	default:
		return nil, err
	}
}

// ReplayRequest re-runs a stored request's utterance as the user who
// originally sent it. The replay goes through the full parse and resolution
// pipeline, so a catalog still missing a piece produces a fresh request.
func (s *EntryService) ReplayRequest(ctx context.Context, requestID uint) (*domain.User, *EntryOutcome, error) {
	fr, err := repo.GetFoodRequest(ctx, s.DB, requestID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, fmt.Errorf("load request: %w", err)
	}
	out, err := s.HandleEntry(ctx, &fr.User, fr.Request)
	if err != nil {
		return &fr.User, nil, err
	}
	return &fr.User, out, nil
}
