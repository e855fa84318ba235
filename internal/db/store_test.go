package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/david/accel-hub/internal/apperr"
)

func TestMapErr_NoRowsBecomesNotFound(t *testing.T) {
	err := mapErr(pgx.ErrNoRows, "application")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found sentinel, got %v", err)
	}
}

func TestMapErr_UniqueViolationBecomesConflict(t *testing.T) {
	err := mapErr(&pgconn.PgError{Code: "23505"}, "assignment")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict sentinel, got %v", err)
	}
}

func TestMapErr_OtherPgErrorsPassThroughWrapped(t *testing.T) {
	cause := &pgconn.PgError{Code: "23503"}
	err := mapErr(cause, "expense")
	if errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("fk violation must not map to a client error, got %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected wrapped pg error, got %v", err)
	}
}

func TestMapErr_NilStaysNil(t *testing.T) {
	if err := mapErr(nil, "user"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
