package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	erpcfg "github.com/Skotchmaster/shop_erp/internal/config"
	"github.com/Skotchmaster/shop_erp/internal/es"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/seed"
	"github.com/Skotchmaster/shop_erp/internal/service"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/store/gormstore"
	"github.com/Skotchmaster/shop_erp/internal/store/memstore"
	pkgdb "github.com/Skotchmaster/shop_erp/pkg/db"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

const startupTimeout = 10 * time.Second

// app holds the process-wide dependencies shared by the subcommands.
type app struct {
	cfg    erpcfg.ServiceConfig
	logger *slog.Logger
	store  store.Store
	events mykafka.Publisher
	index  service.ListingIndex

	closers []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := erpcfg.Load(envFile, cfgFile)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, events: mykafka.Nop{}}
	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := seed.EnsureCategories(sctx, a.store); err != nil {
		a.close()
		return nil, fmt.Errorf("ensure categories: %w", err)
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.Storage == erpcfg.StorageMemory {
		a.store = memstore.New()
		a.logger.Info("storage_ready", "storage", a.cfg.Storage)
		return nil
	}

	octx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, err := pkgdb.Open(octx, a.cfg.Storage, a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	a.closers = append(a.closers, func() error { return pkgdb.Close(db) })

	repo := gormstore.New(db)
	if err := repo.Migrate(octx); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	a.store = repo
	a.logger.Info("storage_ready", "storage", a.cfg.Storage)
	return nil
}

// connectEvents swaps the no-op publisher for Kafka when brokers are set.
func (a *app) connectEvents() {
	if len(a.cfg.KafkaBrokers) == 0 {
		a.logger.Info("events_disabled", "reason", "KAFKA_BROKERS not set")
		return
	}
	p := mykafka.NewProducer(a.cfg.KafkaBrokers)
	a.events = p
	a.closers = append(a.closers, p.Close)
	a.logger.Info("events_ready", "brokers", a.cfg.KafkaBrokers)
}

// connectSearch attaches the Elasticsearch listing index when ES_URL is set.
// An unreachable cluster is logged and search falls back to the store.
func (a *app) connectSearch(ctx context.Context) {
	if a.cfg.ESURL == "" {
		a.logger.Info("search_disabled", "reason", "ES_URL not set")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	client, err := es.NewClient(cctx, a.cfg.ESURL, a.cfg.ESUser, a.cfg.ESPassword)
	if err != nil {
		a.logger.Warn("search_unavailable", "url", a.cfg.ESURL, "error", err)
		return
	}
	a.index = &es.ListingIndex{ES: client, Index: a.cfg.ESIndex}
	a.logger.Info("search_ready", "index", a.cfg.ESIndex)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close_failed", "error", err)
		}
	}
	a.closers = nil
}
