package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationFS, dir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		data, err := migrationFS.ReadFile(name)
		require.NoError(t, err)

		content := string(data)
		assert.True(t, strings.Contains(content, "-- +goose Up"), "%s has no Up section", name)
		assert.True(t, strings.Contains(content, "-- +goose Down"), "%s has no Down section", name)
	}
}

func TestSchemaHasNoUniquePesel(t *testing.T) {
	files, err := fs.Glob(migrationFS, dir+"/*.sql")
	require.NoError(t, err)

	for _, name := range files {
		data, err := migrationFS.ReadFile(name)
		require.NoError(t, err)
		assert.NotContains(t, strings.ToUpper(string(data)), "UNIQUE INDEX IDX_CLIENT_PESEL", name)
	}
}
