// Command fmstatus serves /status and /stats for the file manager's
// document store and cache.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/fmstore/app"
	"github.com/unkn0wn-root/fmstore/config"
	asynchook "github.com/unkn0wn-root/fmstore/hooks/async"
	zaplog "github.com/unkn0wn-root/fmstore/log/zap"
	"github.com/unkn0wn-root/fmstore/sloghooks"
	"github.com/unkn0wn-root/fmstore/statusapi"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	envFile := flag.String("env", ".env", "path to dotenv file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(logger, config.Sources{File: *configPath, EnvFile: *envFile}); err != nil {
		os.Exit(stopped(logger, err))
	}
}

// stopped logs err and flushes the logger before the process exits;
// os.Exit skips deferred calls.
func stopped(logger *zap.Logger, err error) int {
	logger.Error("fmstatus stopped", zap.Error(err))
	_ = logger.Sync()
	return 1
}

func run(logger *zap.Logger, src config.Sources) error {
	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hooks := asynchook.New(sloghooks.New(slog.New(slog.NewJSONHandler(os.Stderr, nil)), sloghooks.Options{
		DisconnectEvery: 10,
	}), 256)
	defer hooks.Close()

	a, err := app.New(ctx, cfg, app.Options{Logger: zaplog.ZapLogger{L: logger}, Hooks: hooks})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Warn("close clients", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           statusapi.NewRouter(a.DB, a.Cache, zaplog.ZapLogger{L: logger}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("db", a.DB.URI()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
