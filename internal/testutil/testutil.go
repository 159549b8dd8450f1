package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/squadpick/internal/db"
	"github.com/vytor/squadpick/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection because every new :memory: connection
// would otherwise open a separate, empty database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.ApplyMigrations(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// PlayerInput builds a PlayerInput from alternating skill name/value pairs.
func PlayerInput(name string, position models.Position, skills ...any) models.PlayerInput {
	in := models.PlayerInput{Name: name, Position: position}
	for i := 0; i+1 < len(skills); i += 2 {
		in.Skills = append(in.Skills, models.SkillInput{
			Skill: skills[i].(models.SkillName),
			Value: skills[i+1].(int),
		})
	}
	return in
}
