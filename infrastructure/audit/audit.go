package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"skiphire/models"
)

// Entry is one audited event. Before and After are stored as JSON; nil stores nothing.
type Entry struct {
	PageToken  string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records inside the caller transaction.
type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	row, err := s.row(e)
	if err != nil {
		return fmt.Errorf("audit %s: %w", e.Action, err)
	}
	if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert audit %s: %w", e.Action, err)
	}
	return nil
}

func (s *Service) row(e Entry) (*models.AuditLog, error) {
	before, err := encode(e.Before)
	if err != nil {
		return nil, err
	}
	after, err := encode(e.After)
	if err != nil {
		return nil, err
	}
	return &models.AuditLog{
		PageToken:  e.PageToken,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: before,
		AfterJSON:  after,
		CreatedAt:  s.now().UTC(),
	}, nil
}

// Recent lists the newest audit rows for action.
func (s *Service) Recent(ctx context.Context, tx bun.Tx, action string, limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	err := tx.NewSelect().
		Model(&out).
		Where("action = ?", action).
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	return out, err
}

func encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
