// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"autogensocial/internal/database"
)

// newMock returns an sqlx handle backed by sqlmock.
func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, database.DriverName), mock
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens the integration database and runs migrations. The test is
// skipped when PostgreSQL is not reachable.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "autogensocial") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "autogensocial") + "?sslmode=disable"

	db, err := sql.Open(database.DriverName, dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, database.DriverName)
}
