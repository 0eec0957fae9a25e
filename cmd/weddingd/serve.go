package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"weddingsite/auth"
	"weddingsite/db"
	"weddingsite/live"
	"weddingsite/media"
	"weddingsite/metrics"
	"weddingsite/web"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the invitation site and admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, migrate)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", ":3000", "Listen address")
	flags.String("images-dir", "public/images", "Directory of selectable images, served under /images/")
	flags.Bool("cookie-secure", false, "Mark the admin session cookie Secure")
	flags.Duration("session-ttl", auth.DefaultSessionTTL, "Admin session lifetime")
	flags.String("web-origin", "", "Allowed CORS origin for a separately hosted admin console")
	flags.BoolVar(&migrate, "migrate", true, "Auto-migrate the database on start")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	log := a.logger.Sugar()
	cfg := a.cfg
	log.Infof(
		"web: config addr=%s dbDriver=%s imagesDir=%s cookieSecure=%t sessionTTL=%s webOrigin=%s adminLogin=%t",
		cfg.Addr,
		cfg.DBDriver,
		cfg.ImagesDir,
		cfg.CookieSecure,
		cfg.SessionTTL,
		cfg.Origin(),
		cfg.AdminPass != "",
	)
	if cfg.AdminPass == "" {
		log.Warn("web: ADMIN_PASSWORD is not set, admin login is disabled")
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("web: failed to open database: %w", err)
	}
	if migrate {
		if err := db.Migrate(store.DB()); err != nil {
			return fmt.Errorf("web: migrate failed: %w", err)
		}
	}

	images := media.NewCatalog(cfg.ImagesDir, log)
	if err := images.Watch(ctx); err != nil {
		log.Warnf("web: image watcher disabled: %v", err)
	}

	srv, err := web.New(web.Options{
		Store: store,
		Auth: auth.NewManager(auth.Config{
			Password:     cfg.AdminPass,
			SessionTTL:   cfg.SessionTTL,
			CookieSecure: cfg.CookieSecure,
		}, log),
		Hub:       live.NewHub(),
		Images:    images,
		Metrics:   metrics.New(),
		Logger:    log,
		WebOrigin: cfg.Origin(),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("web: starting on %s", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("web: shutting down")
	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
