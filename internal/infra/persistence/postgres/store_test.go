package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestNewStoreOpenFailure(t *testing.T) {
	wantErr := errors.New("boom")
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			t.Fatalf("unexpected driver %q", driver)
		}
		return nil, wantErr
	})
	defer restore()

	if _, err := NewStore(context.Background(), "postgres://example/db"); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped open error, got %v", err)
	}
}

func TestNewStoreDefaultDSN(t *testing.T) {
	var gotDSN string
	restore := OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return nil, errors.New("stop here")
	})
	defer restore()

	_, _ = NewStore(context.Background(), "")
	if gotDSN != defaultDSN {
		t.Fatalf("empty DSN must fall back to %q, got %q", defaultDSN, gotDSN)
	}
}
