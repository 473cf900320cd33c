// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/tslate/tslate/config"
	"codeberg.org/tslate/tslate/core/catalog"
	"codeberg.org/tslate/tslate/core/lrucache"
	"codeberg.org/tslate/tslate/i18n"
	"codeberg.org/tslate/tslate/server/router"
	"codeberg.org/tslate/tslate/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second
)

// runServe loads the configured catalogue directory and serves the lookup API
// until SIGINT or SIGTERM.
func runServe(args []string, _ io.Writer) error {
	flags := newFlagSet("serve", "")
	configPath := config.ConfigFlag(flags)

	if err := parse(flags, args, 0); err != nil {
		return err
	}

	if err := config.Global.LoadConfig(*configPath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Global.Print()
	config.Global.WarnIfContainerized()

	handler, err := newHandler(context.Background(), os.DirFS(config.Global.Catalog.Dir))
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := listen()
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Serve(listener)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(quit)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case s := <-quit:
		log.Info().Str("signal", s.String()).Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), config.Global.Basic.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// newHandler loads the catalogues of fsys into the i18n bundle and returns
// the API router serving them.
func newHandler(ctx context.Context, fsys fs.FS) (http.Handler, error) {
	cfg := &config.Global.Catalog

	b, err := catalog.LoadDir(ctx, fsys, ".", cfg.Domain, cfg.Base)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogues from %s: %w", cfg.Dir, err)
	}

	i18n.SetBundle(b)

	log.Info().
		Int("locales", len(b.Languages())-1).
		Str("base", b.Base().String()).
		Msg("Loaded catalogues")

	var cache *lrucache.Cache

	if config.Global.Cache.Enabled {
		cache, err = lrucache.New(config.Global.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to create export cache: %w", err)
		}
	}

	r := router.New(routes.NewAPI(fsys, cache))

	log.Debug().
		Strs("routes", r.Patterns()).
		Msg("Registered routes")

	return r, nil
}

func listen() (net.Listener, error) {
	addr := net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port)

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	log.Info().
		Str("address", listener.Addr().String()).
		Str("url", fmt.Sprintf("http://%s/api/v1/locales", listener.Addr())).
		Msg("Listening on address")

	return listener, nil
}
