package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-inventory/internal/domain"
)

func TestWrapErr_ConflictosReintentables(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected} {
		err := wrapErr("op", fmt.Errorf("driver: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConflict, code)
	}

	err := wrapErr("op", &pgconn.PgError{Code: "23514"})
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: codeDeadlockDetected}))
}

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_inventory_core.up.sql")
	assert.Contains(t, names, "000001_inventory_core.down.sql")
}
