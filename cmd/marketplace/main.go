package main

import (
	"context"
	"os"

	"github.com/amythology/seedsmart-client/internal/cart"
	"github.com/amythology/seedsmart-client/internal/catalog"
	"github.com/amythology/seedsmart-client/internal/checkout"
	"github.com/amythology/seedsmart-client/internal/gateway"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/internal/session"
	"github.com/amythology/seedsmart-client/pkg/config"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/storage"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "marketplace"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "marketplace",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := newStorage(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	hub := notify.NewHub(logg, 0)
	navigator := screenNavigator(os.Stdout)

	sessions, err := session.NewStore(store, hub, navigator, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	client, err := gateway.NewClient(cfg.API, sessions, sessions, navigator, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway", err)
		os.Exit(1)
	}

	catalogState, err := catalog.NewState(catalog.Params{
		Lister:         client,
		Notifier:       hub,
		Logger:         logg,
		PageSize:       cfg.Market.PageSize,
		SearchDebounce: cfg.Market.SearchDebounce,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(context.Background(), store, catalogState, hub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart", err)
		os.Exit(1)
	}

	flow, err := checkout.NewFlow(checkout.Params{
		Cart:          cartStore,
		Session:       sessions,
		Orders:        client,
		Notifier:      hub,
		Nav:           navigator,
		Logger:        logg,
		DeliveryFee:   cfg.Market.DeliveryFee,
		RedirectDelay: cfg.Market.RedirectDelay,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout flow", err)
		os.Exit(1)
	}

	app := &App{
		Gateway:  client,
		Session:  sessions,
		Catalog:  catalogState,
		Cart:     cartStore,
		Checkout: flow,
		Hub:      hub,
		Nav:      navigator,
		Logger:   logg,
		In:       os.Stdin,
		Out:      os.Stdout,
	}

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	logg.Info(ctx, "starting marketplace client")

	if err := app.Run(ctx); err != nil {
		logg.Error(ctx, "marketplace client stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		return storage.NewRedisStore(ctx, cfg.Redis)
	case config.StorageBackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFileStore(cfg.Storage.FilePath)
	}
}
