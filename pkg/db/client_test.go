package db

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
)

func TestNewSQLiteAndPing(t *testing.T) {
	client, err := New(context.Background(), config.StoreConfig{
		Driver:       config.StoreDriverSQLite,
		DSN:          "file::memory:?cache=shared",
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer client.Close()

	if client.Driver() != config.StoreDriverSQLite {
		t.Fatalf("unexpected driver %q", client.Driver())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(context.Background(), config.StoreConfig{Driver: config.StoreDriverPostgres}, nil); err == nil {
		t.Fatal("expected missing DSN to fail")
	}
	if _, err := New(context.Background(), config.StoreConfig{Driver: "mongo", DSN: "x"}, nil); err == nil {
		t.Fatal("expected non-sql driver to fail")
	}
}

func TestNewFromGorm(t *testing.T) {
	conn, err := Open(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	client := NewFromGorm(conn, config.StoreDriverSQLite)
	if client.DB() != conn {
		t.Fatal("expected wrapped connection")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected pg unique violation")
	}
	if !IsUniqueViolation(pgErr, "users_email_key") {
		t.Fatal("expected matching constraint")
	}
	if IsUniqueViolation(pgErr, "other_key") {
		t.Fatal("constraint mismatch should be false")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not unique violation")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email"), "users.email") {
		t.Fatal("expected sqlite unique violation")
	}
	if IsUniqueViolation(errors.New("boom"), "") || IsUniqueViolation(nil, "") {
		t.Fatal("unrelated errors are not unique violations")
	}
}
