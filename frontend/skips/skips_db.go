package skips

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/uptrace/bun"

	"skiphire/infrastructure/audit"
	"skiphire/infrastructure/pricing"
	"skiphire/infrastructure/sqlite"
	"skiphire/models"
)

const (
	ActionContinue   = "skip.continue"
	entityTypeSkip   = "skip"
	maxErrorTextSize = 500
)

// NewFetchRun describes the outcome of one pricing fetch.
func NewFetchRun(pageToken string, loc pricing.Location, records int, took time.Duration, fetchErr error) models.FetchRun {
	run := models.FetchRun{
		PageToken:   pageToken,
		Postcode:    loc.Postcode,
		Area:        loc.Area,
		Outcome:     fetchOutcome(fetchErr),
		RecordCount: records,
		DurationMS:  took.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if fetchErr == nil {
		run.StatusCode = 200
		return run
	}
	run.StatusCode = pricing.StatusCode(fetchErr)
	run.RecordCount = 0
	run.ErrorText = truncate(fetchErr.Error(), maxErrorTextSize)
	return run
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return models.FetchOutcomeOK
	case errors.Is(err, pricing.ErrFetchFailed):
		return models.FetchOutcomeFailed
	default:
		return models.FetchOutcomeUnexpected
	}
}

func RecordFetchRun(ctx context.Context, db *sqlite.DB, run models.FetchRun) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&run).Exec(ctx)
		return err
	})
}

// LoadRecentFetchRuns returns up to limit fetch runs, newest first.
func LoadRecentFetchRuns(ctx context.Context, db *sqlite.DB, limit int) ([]models.FetchRun, error) {
	if limit <= 0 {
		limit = 20
	}
	runs := make([]models.FetchRun, 0, limit)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&runs).OrderExpr("id DESC").Limit(limit).Scan(ctx)
	})
	return runs, err
}

// continueRecord is the audit payload for a hand-off to the permit step.
type continueRecord struct {
	SkipID         int64   `json:"skipId"`
	Size           int     `json:"size"`
	HirePeriodDays int     `json:"hirePeriodDays"`
	Price          string  `json:"price"`
	PriceNumeric   int64   `json:"priceNumeric"`
	NextStep       string  `json:"nextStep"`
	SortBy         SortKey `json:"sortBy"`
}

// RecordContinue writes the skip.continue audit row for the selected skip.
func RecordContinue(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, pageToken string, state PageState, selected SkipViewModel) error {
	after := continueRecord{
		SkipID:         selected.ID,
		Size:           selected.Size,
		HirePeriodDays: selected.HirePeriodDays,
		Price:          selected.Price,
		PriceNumeric:   selected.PriceNumeric,
		NextStep:       nextStepLabel(),
		SortBy:         state.Filters.SortBy,
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return auditSvc.Write(ctx, tx, audit.Entry{
			PageToken:  pageToken,
			Action:     ActionContinue,
			EntityType: entityTypeSkip,
			EntityID:   strconv.FormatInt(selected.ID, 10),
			Before:     state,
			After:      after,
		})
	})
}

func nextStepLabel() string {
	for _, s := range checkoutSteps {
		if !s.Completed && !s.Active {
			return s.Label
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
