package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-todo-server/auth"
	"github.com/jrsteele09/go-todo-server/internal/config"
	"github.com/jrsteele09/go-todo-server/internal/migrations"
	"github.com/jrsteele09/go-todo-server/server"
	"github.com/jrsteele09/go-todo-server/tasks"
	"github.com/jrsteele09/go-todo-server/token"
	"github.com/jrsteele09/go-todo-server/token/ledger"
	"github.com/jrsteele09/go-todo-server/users"
)

func main() {
	cfg := config.FromEnv()
	log := newLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(cfg config.Config, log zerolog.Logger) error {
	displayAppname(cfg.AppName)

	if cfg.ExpiryFallback {
		log.Warn().Msg("token expiry misconfigured, using built-in defaults")
	}

	db, err := openDatabase(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("openDatabase: %w", err)
	}
	defer db.Close()

	codec := token.NewCodec(cfg)
	authService, err := auth.NewService(
		auth.Repos{
			Users:  users.NewPostgresRepository(db),
			Ledger: ledger.NewPostgresRepository(db),
		},
		codec,
		auth.WithBcryptCost(cfg.BcryptCost),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go pruneExpiredSessions(pruneCtx, authService, log)

	taskService, err := tasks.NewService(tasks.NewPostgresRepository(db))
	if err != nil {
		return fmt.Errorf("tasks.NewService: %w", err)
	}

	handler, err := server.New(cfg, log, codec, authService, taskService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: cfg.Port, Handler: handler}
	go listenAndServe(httpServer, log)
	waitForStopSignal()
	return shutdown(httpServer)
}

func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("goose.SetDialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("goose.Up: %w", err)
	}
	return db, nil
}

// pruneExpiredSessions reclaims expired refresh-token ledger rows once at
// startup and then hourly. Expired rows are already unusable; this only
// keeps the table from growing without bound.
func pruneExpiredSessions(ctx context.Context, authService *auth.Service, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		n, err := authService.PruneExpiredSessions(ctx)
		if err != nil {
			log.Error().Err(err).Msg("prune expired sessions")
		} else if n > 0 {
			log.Info().Int64("pruned", n).Msg("expired sessions removed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.DebugLevel)
}

func listenAndServe(httpServer *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
