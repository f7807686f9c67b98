package migration

import (
	"os"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinderhub/kinderhub/internal/infrastructure/persistence/testdb"
	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

func TestMigrator_Sources(t *testing.T) {
	m, err := NewMigrator(testdb.New(t), goose.DialectSQLite3, logger.NewNop())
	require.NoError(t, err)

	sources := m.Sources()
	require.Len(t, sources, 2)
	assert.EqualValues(t, 1, sources[0].Version)
	assert.EqualValues(t, 2, sources[1].Version)
}

func TestScripts_HaveUpAndDown(t *testing.T) {
	entries, err := scripts.ReadDir("scripts")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := scripts.ReadFile("scripts/" + e.Name())
		require.NoError(t, err)
		text := string(body)
		assert.True(t, strings.Contains(text, "-- +goose Up"), e.Name())
		assert.True(t, strings.Contains(text, "-- +goose Down"), e.Name())
	}
}

func TestScripts_LiveGrantIndexes(t *testing.T) {
	body, err := os.ReadFile("scripts/00001_create_rbac_tables.sql")
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, "UNIQUE KEY uk_role_permission_active (role_id, permission_id, active_flag)")
	assert.Contains(t, text, "UNIQUE KEY uk_user_role_active (user_id, role_id, active_flag)")
}
