package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	authgate "github.com/authgate-dev/authgate"
	"github.com/authgate-dev/authgate/directory"
	"github.com/authgate-dev/authgate/httpapi"
)

type serverConfig struct {
	Addr       string `env:"API_ADDR" envDefault:":5000"`
	SQLitePath string `env:"SQLITE_PATH"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	AuditLog   bool   `env:"AUDIT_LOG" envDefault:"true"`
}

func main() {
	root := &cobra.Command{
		Use:           "authgated",
		Short:         "authgated serves the authentication HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("authgated exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var srvCfg serverConfig
	if err := env.Parse(&srvCfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg, err := authgate.FromEnv()
	if err != nil {
		return err
	}
	if len(cfg.ExcludedPaths) == 0 {
		cfg.ExcludedPaths = httpapi.DefaultExcludedPaths
	}

	var dir authgate.UserDirectory
	if srvCfg.SQLitePath != "" {
		sqlDir, err := directory.OpenSQLite(srvCfg.SQLitePath)
		if err != nil {
			return err
		}
		defer sqlDir.Close()
		dir = sqlDir
	} else {
		logger.Warn("no SQLITE_PATH set, users will not survive restarts")
		dir = directory.NewMemory()
	}

	builder := authgate.New().
		WithConfig(cfg).
		WithDirectory(dir)

	if srvCfg.AuditLog {
		builder = builder.WithAuditSink(authgate.NewJSONWriterSink(os.Stdout))
	}

	if cfg.Strategy == authgate.StrategySessionDB {
		client := redis.NewClient(&redis.Options{Addr: srvCfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		builder = builder.WithRedis(client)
	}

	svc, err := builder.Build()
	if err != nil {
		return err
	}
	defer svc.Close()

	server := &http.Server{
		Addr:              srvCfg.Addr,
		Handler:           httpapi.NewServer(svc, cfg.Session.CookieName, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", srvCfg.Addr, "strategy", string(cfg.Strategy))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
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
