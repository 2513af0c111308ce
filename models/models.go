package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Fetch outcomes recorded against a pricing fetch run.
const (
	FetchOutcomeOK         = "ok"
	FetchOutcomeFailed     = "fetch_failed"
	FetchOutcomeUnexpected = "unexpected"
)

// FetchRun records one call to the pricing-by-location endpoint.
type FetchRun struct {
	bun.BaseModel `bun:"table:pricing_fetches,alias:pf"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	PageToken   string    `bun:"page_token,notnull" json:"pageToken"`
	Postcode    string    `bun:"postcode,notnull" json:"postcode"`
	Area        string    `bun:"area,notnull" json:"area"`
	Outcome     string    `bun:"outcome,notnull" json:"outcome"`
	StatusCode  int       `bun:"status_code,notnull,default:0" json:"statusCode"`
	RecordCount int       `bun:"record_count,notnull,default:0" json:"recordCount"`
	ErrorText   string    `bun:"error_text" json:"errorText,omitempty"`
	DurationMS  int64     `bun:"duration_ms,notnull,default:0" json:"durationMs"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// AuditLog captures hand-off events leaving the skip selection step.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	PageToken  string    `bun:"page_token,notnull" json:"pageToken"`
	Action     string    `bun:"action,notnull" json:"action"`
	EntityType string    `bun:"entity_type,notnull" json:"entityType"`
	EntityID   string    `bun:"entity_id,notnull" json:"entityId"`
	BeforeJSON string    `bun:"before_json" json:"before,omitempty"`
	AfterJSON  string    `bun:"after_json" json:"after,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
