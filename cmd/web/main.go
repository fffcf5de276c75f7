package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
	apphttp "github.com/Bilal-Junaid-Jiwani/fake-API/internal/http"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/flash"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/http/shoppercookie"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/metrics"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/cart"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/catalogview"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/checkout"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/email"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/listing"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level := slog.LevelInfo
	if !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer func() { _ = store.Close() }()
	logger.Info("storage_ready", slog.String("driver", store.Driver))

	nav, err := config.LoadNavigation(cfg.NavigationFile)
	if err != nil {
		log.Fatalf("navigation: %v", err)
	}

	m := metrics.New()
	client := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithPageLimit(cfg.Catalog.PageLimit),
		catalog.WithObserver(m),
	)

	selections := selection.NewStore(store.Backend, logger)

	views := catalogview.NewRegistry(client, catalogview.Options{
		Placeholders: cfg.Listing.Placeholders,
		RenderDelay:  cfg.Listing.RenderDelay,
		Engine:       listing.NewEngine(cfg.Listing.CollateLang),
		Logger:       logger,
	}, cfg.Listing.SessionTTL)
	pruneStop := make(chan struct{})
	go views.Run(pruneStop, cfg.Listing.SessionTTL/2)

	sender, err := email.NewSender(cfg, logger)
	if err != nil {
		log.Fatalf("email: %v", err)
	}
	tracker := notify.NewTracker(cfg.Email.StatusTTL)
	dispatchOpts := []notify.DispatcherOption{
		notify.WithObserver(m),
		notify.WithTimeout(cfg.Email.Timeout),
	}
	if cfg.Kafka.Brokers != "" {
		pub := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = pub.Close() }()
		dispatchOpts = append(dispatchOpts, notify.WithPublisher(pub))
		logger.Info("order_events_enabled", slog.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := notify.NewDispatcher(email.NewConfirmationNotifier(sender), tracker, logger, dispatchOpts...)

	workers := cfg.Catalog.ResolveWorkers
	r := apphttp.NewRouter(apphttp.Deps{
		Logger:     logger,
		Metrics:    m,
		Navigation: nav,
		Debounce:   cfg.Listing.SearchDebounce,
		Catalog:    client,
		Views:      views,
		Store:      selections,
		Cart:       cart.NewService(selections, client, workers, logger),
		Checkout: checkout.NewService(selections, client, dispatcher, workers,
			checkout.WithObserver(m),
			checkout.WithLogger(logger),
		),
		Tracker:  tracker,
		Shoppers: shoppercookie.New(cfg.Cookies.Secret, cfg.Cookies.ShopperName, cfg.Cookies.Secure, cfg.Cookies.ShopperMaxAge),
		Flash:    flash.NewCodec(cfg.Cookies.Secret, cfg.Cookies.FlashName, cfg.Cookies.Secure),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("http_listening", slog.String("addr", cfg.HTTP.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_failed", slog.String("err", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", slog.String("err", err.Error()))
	}
	close(pruneStop)
	dispatcher.Wait()
}
