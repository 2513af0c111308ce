package audit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"skiphire/infrastructure/sqlite"
	"skiphire/models"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWriteAndRecent(t *testing.T) {
	db := openTestDB(t)
	svc := NewService()
	ctx := context.Background()

	for i, id := range []string{"11", "12"} {
		after := map[string]any{"skipId": id, "n": i}
		err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			return svc.Write(ctx, tx, Entry{PageToken: "tok", Action: "skip.continue", EntityType: "skip", EntityID: id, After: after})
		})
		if err != nil {
			t.Fatalf("write audit %s: %v", id, err)
		}
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return svc.Write(ctx, tx, Entry{PageToken: "tok", Action: "other", EntityType: "skip", EntityID: "13"})
	})
	if err != nil {
		t.Fatalf("write other audit: %v", err)
	}

	var rows []models.AuditLog
	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rows, err = svc.Recent(ctx, tx, "skip.continue", 10)
		return err
	})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].EntityID != "12" || rows[1].EntityID != "11" {
		t.Fatalf("expected newest first, got %s,%s", rows[0].EntityID, rows[1].EntityID)
	}
	if rows[0].BeforeJSON != "" {
		t.Fatalf("expected empty before json, got %q", rows[0].BeforeJSON)
	}
	var after map[string]any
	if err := json.Unmarshal([]byte(rows[0].AfterJSON), &after); err != nil {
		t.Fatalf("decode after json: %v", err)
	}
	if after["skipId"] != "12" {
		t.Fatalf("unexpected after json %q", rows[0].AfterJSON)
	}
	if rows[0].CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestWriteUsesInjectedClock(t *testing.T) {
	db := openTestDB(t)
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := &Service{now: func() time.Time { return fixed }}
	ctx := context.Background()

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return svc.Write(ctx, tx, Entry{PageToken: "tok", Action: "skip.continue", EntityType: "skip", EntityID: "1"})
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	var rows []models.AuditLog
	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rows, err = svc.Recent(ctx, tx, "skip.continue", 1)
		return err
	})
	if err != nil || len(rows) != 1 {
		t.Fatalf("recent: %v (%d rows)", err, len(rows))
	}
	if !rows[0].CreatedAt.Equal(fixed) {
		t.Fatalf("expected created_at %s, got %s", fixed, rows[0].CreatedAt)
	}
}

func TestWriteRejectsUnencodablePayload(t *testing.T) {
	db := openTestDB(t)
	svc := NewService()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return svc.Write(ctx, tx, Entry{Action: "bad", After: make(chan int)})
	})
	if err == nil {
		t.Fatalf("expected encode error")
	}
}
