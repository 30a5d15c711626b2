package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/atvirokodosprendimai/travelapi/internal/app"
)

func main() {
	cmd := &cli.Command{
		Name:  "travelapi",
		Usage: "Travel content API: destinations, newsletter, contact and itineraries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Sources: cli.EnvVars("ADDR"),
				Usage:   "HTTP listen address (defaults to :$PORT)",
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8000,
				Sources: cli.EnvVars("PORT"),
				Usage:   "HTTP port used when --addr is empty",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Sources: cli.EnvVars("DATABASE_URL"),
				Usage:   "SQLite file path or sqlite:// URL; the store stays uninitialized when empty",
			},
			&cli.StringFlag{
				Name:    "database-name",
				Sources: cli.EnvVars("DATABASE_NAME"),
				Usage:   "Logical database name documents are namespaced by",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Usage:   "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Sources: cli.EnvVars("LOG_FORMAT"),
				Usage:   "Log format (json or console)",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:  "seed",
				Usage: "Load destinations from a YAML or JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
						Usage:    "Seed file path",
					},
				},
				Action: seed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Command) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.String("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	var logger zerolog.Logger
	switch c.String("log-format") {
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	case "json", "":
		logger = zerolog.New(os.Stderr)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", c.String("log-format"))
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func configFrom(c *cli.Command) (app.Config, error) {
	logger, err := newLogger(c)
	if err != nil {
		return app.Config{}, err
	}

	addr := c.String("addr")
	if addr == "" {
		addr = net.JoinHostPort("", fmt.Sprint(c.Int("port")))
	}
	return app.Config{
		Addr:         addr,
		DatabaseURL:  c.String("database-url"),
		DatabaseName: c.String("database-name"),
		Logger:       logger,
	}, nil
}

func serve(ctx context.Context, c *cli.Command) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	log := cfg.Logger

	server, closer, err := app.NewServer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("close resources")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case sig := <-sigCh:
		log.Info().Stringer("signal", sig).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func seed(ctx context.Context, c *cli.Command) error {
	cfg, err := configFrom(c)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("seed requires --database-url")
	}
	log := cfg.Logger

	inputs, err := app.LoadSeedFile(c.String("file"))
	if err != nil {
		return err
	}

	services, err := app.NewServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	if _, stateErr := services.Conn.State(); stateErr != nil {
		return fmt.Errorf("open store: %w", stateErr)
	}

	n, err := services.Travel.SeedDestinations(ctx, inputs)
	if err != nil {
		return fmt.Errorf("seed destinations (%d written): %w", n, err)
	}
	log.Info().Int("count", n).Str("file", c.String("file")).Msg("destinations seeded")
	return nil
}
