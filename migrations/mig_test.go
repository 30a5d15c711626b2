package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUpLogsThroughZerolog(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "mig.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	version, err := Up(context.Background(), db, zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines[0])
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		assert.Equal(t, "goose", entry["component"])
		assert.NotEmpty(t, entry["message"])
	}
}
