package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-xor-breaker/api"
	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Listen `ADDR` (overrides listen_addr)",
		},
		&cli.BoolFlag{
			Name:  "debug-gin",
			Usage: "Run gin in debug mode",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.IsSet("listen") {
		settings.ListenAddr = c.String("listen")
	}

	eng, err := engine.Open(*settings)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer eng.Close()

	if !c.Bool("debug-gin") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(eng, settings.MaxRequestBytes)

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", settings.ListenAddr).Str("strategy", settings.Strategy).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return cli.Exit("failed to start server: "+err.Error(), 1)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logging.Info().Msg("server exited")
	return nil
}
