package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorHelpers(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	badUUID := &pgconn.PgError{Code: "22P02"}
	noRows := fmt.Errorf("select: %w", pgx.ErrNoRows)

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(badUUID))

	assert.True(t, IsPgInvalidTextError(badUUID))
	assert.False(t, IsPgInvalidTextError(noRows))

	assert.True(t, IsPgNoRowsError(noRows))
	assert.False(t, IsPgNoRowsError(dup))
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")

	assert.Equal(t, "test_sites", tables.Sites)
	assert.Equal(t, "test_", tables.Prefix)
}
