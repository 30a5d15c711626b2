package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/atvirokodosprendimai/travelapi/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/travelapi/internal/adapters/metrics"
	sqliteadapter "github.com/atvirokodosprendimai/travelapi/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/travelapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
	"github.com/atvirokodosprendimai/travelapi/internal/core/usecase"
	"github.com/atvirokodosprendimai/travelapi/migrations"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	DatabaseName string
	Logger       zerolog.Logger
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Services is the wired core shared by the HTTP server and the CLI commands.
type Services struct {
	Conn        *sqliteadapter.Conn
	Catalog     *schema.Catalog
	Travel      *usecase.TravelService
	Diagnostics *usecase.Diagnostics
}

func (s *Services) Close() error {
	return s.Conn.Close()
}

// NewServices connects the store and builds the use cases. A missing or
// unreachable store is not an error: the connection handle records it and
// requests that need the store fail individually.
func NewServices(ctx context.Context, cfg Config) (*Services, error) {
	catalog, err := schema.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("compile schemas: %w", err)
	}

	conn := connect(ctx, cfg)
	repo := sqliteadapter.NewRepository(conn, cfg.DatabaseName, cfg.Logger)

	return &Services{
		Conn:    conn,
		Catalog: catalog,
		Travel:  usecase.NewTravelService(repo, catalog),
		Diagnostics: usecase.NewDiagnostics(conn, repo, usecase.DiagnosticsConfig{
			DatabaseURLSet: cfg.DatabaseURL != "",
			DatabaseName:   cfg.DatabaseName,
		}),
	}, nil
}

func connect(ctx context.Context, cfg Config) *sqliteadapter.Conn {
	log := cfg.Logger
	conn := sqliteadapter.NewConn()
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, store not initialized")
		return conn
	}

	db, err := openStore(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error().Err(err).Msg("store initialization failed")
		_ = conn.Fail(err)
		return conn
	}
	_ = conn.Ready(db)
	log.Info().Str("database_name", cfg.DatabaseName).Msg("store connected")
	return conn
}

func openStore(ctx context.Context, dsn string, log zerolog.Logger) (*gormsqlite.DB, error) {
	db, err := gormsqlite.Open(dsn, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("resolve writer sql db: %w", err)
	}
	version, err := migrations.Up(ctx, writeSQLDB, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Int64("schema_version", version).Msg("migrations applied")
	return db, nil
}

func NewServer(ctx context.Context, cfg Config) (*http.Server, io.Closer, error) {
	services, err := NewServices(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(services.Travel, services.Diagnostics, services.Catalog, metrics.New(), cfg.Logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{services}}, nil
}
