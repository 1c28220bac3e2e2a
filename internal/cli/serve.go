package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/shop_erp/internal/httpserver"
	"github.com/Skotchmaster/shop_erp/internal/seed"
	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	a.connectEvents()
	a.connectSearch(ctx)

	if a.cfg.Seed {
		if _, err := seed.Demo(logging.IntoContext(ctx, a.logger), a.store, time.Now()); err != nil {
			return err
		}
	}

	authSvc := &service.AuthService{
		Repo:          a.store,
		JWTSecret:     a.cfg.JWTAccessSecret,
		RefreshSecret: a.cfg.JWTRefreshSecret,
		Events:        a.events,
	}
	marketSvc := &service.MarketplaceService{Repo: a.store, Index: a.index, Events: a.events}
	if a.index != nil {
		n, err := marketSvc.Reindex(logging.IntoContext(ctx, a.logger))
		if err != nil {
			a.logger.Warn("reindex_failed", "error", err)
		} else {
			a.logger.Info("reindex_done", "listings", n)
		}
	}

	e := httpserver.NewEcho(a.logger)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:        &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler:     &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: a.store, Listings: marketSvc, Events: a.events}},
		CustomerHandler:    &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: a.store, Events: a.events}},
		OrderHandler:       &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: a.store, Events: a.events}},
		InvoiceHandler:     &httpserver.InvoiceHTTP{Svc: &service.InvoiceService{Repo: a.store, Events: a.events}},
		MarketplaceHandler: &httpserver.MarketplaceHTTP{Svc: marketSvc},
		DashboardHandler:   &httpserver.DashboardHTTP{Svc: &service.DashboardService{Repo: a.store}},
		JWTSecret:          a.cfg.JWTAccessSecret,
		Refresher:          authSvc,
		Ready:              a.store.Ping,
		CSRF:               a.cfg.CSRF,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server_listening", "addr", srv.Addr, "storage", a.cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown_failed", "error", err)
		return err
	}

	a.logger.Info("server_stopped")
	return nil
}
