package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
	"github.com/atvirokodosprendimai/travelapi/internal/core/usecase"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Addr:         ":0",
		DatabaseURL:  "sqlite://" + filepath.Join(t.TempDir(), "travel.sqlite"),
		DatabaseName: "travel",
		Logger:       zerolog.Nop(),
	}
}

func TestNewServicesWithoutDatabaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = ""

	services, err := NewServices(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	state, _ := services.Conn.State()
	assert.Equal(t, domain.StoreUninitialized, state)

	_, err = services.Travel.ListDestinations(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestNewServicesUnreachableStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing", "dir", "travel.sqlite")

	services, err := NewServices(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	state, stateErr := services.Conn.State()
	assert.Equal(t, domain.StoreFailed, state)
	assert.Error(t, stateErr)

	report := services.Diagnostics.Report(context.Background())
	assert.True(t, strings.HasPrefix(report.Database, "❌ Error: "), report.Database)
}

func TestNewServerServesRequests(t *testing.T) {
	server, closer, err := NewServer(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report usecase.DiagnosticReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "✅ Connected & Working", report.Database)
	require.NotNil(t, report.DatabaseURL)
	assert.Equal(t, "✅ Set", *report.DatabaseURL)
}

func TestLoadSeedFileYAML(t *testing.T) {
	inputs, err := LoadSeedFile(filepath.Join("testdata", "destinations.yaml"))
	require.NoError(t, err)
	require.Len(t, inputs, 3)
	assert.Equal(t, "Lisbon", inputs[0]["name"])
	assert.Equal(t, "Cusco", inputs[2]["name"])
}

func TestLoadSeedFileJSON(t *testing.T) {
	inputs, err := LoadSeedFile(filepath.Join("testdata", "destinations.json"))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "Marrakesh", inputs[1]["name"])
}

func TestLoadSeedFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("destinations: []\n"), 0o600))

	_, err := LoadSeedFile(path)
	assert.ErrorIs(t, err, ErrEmptySeed)
}

func TestSeedRoundTrip(t *testing.T) {
	ctx := context.Background()
	services, err := NewServices(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	inputs, err := LoadSeedFile(filepath.Join("testdata", "destinations.yaml"))
	require.NoError(t, err)
	n, err := services.Travel.SeedDestinations(ctx, inputs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := services.Travel.ListDestinations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Kyoto", got[1].Name)
	assert.Nil(t, got[2].Tagline)
}

func TestSeedRejectsInvalidFileWithoutWriting(t *testing.T) {
	ctx := context.Background()
	services, err := NewServices(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = services.Close() })

	inputs, err := LoadSeedFile(filepath.Join("testdata", "invalid.yaml"))
	require.NoError(t, err)
	_, err = services.Travel.SeedDestinations(ctx, inputs)

	var ve *schema.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "country", ve.Field)

	got, err := services.Travel.ListDestinations(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
