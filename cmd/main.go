package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/SergeyBogomolovv/storefront-orders/docs"
	"github.com/SergeyBogomolovv/storefront-orders/internal/app"
	"github.com/SergeyBogomolovv/storefront-orders/internal/carrier"
	"github.com/SergeyBogomolovv/storefront-orders/internal/config"
	"github.com/SergeyBogomolovv/storefront-orders/internal/handler"
	"github.com/SergeyBogomolovv/storefront-orders/internal/jobs"
	"github.com/SergeyBogomolovv/storefront-orders/internal/postgres"
	"github.com/SergeyBogomolovv/storefront-orders/internal/repo"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/cache"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Storefront Orders API
// @version         1.0
// @description     Order status, carrier tracking and cart pricing
// @BasePath        /
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to apply migrations", postgres.Migrate(context.Background(), db))

	storeRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache("orders", conf.Cache.Capacity, conf.Cache.TTL)

	notifier := handler.NewKafkaNotifier(logger, conf.Kafka)

	pricingService := service.NewPricingService(logger, storeRepo, storeRepo, storeRepo, storeRepo)
	statusService := service.NewStatusService(logger, txManager, storeRepo, notifier, orderCache)
	orderService := service.NewOrderService(logger, txManager, storeRepo, orderCache, pricingService)

	carrierClient := carrier.NewClient(logger, conf.Carrier)
	trackingService := service.NewTrackingService(logger, storeRepo, carrierClient, statusService, conf.Tracking.NotifyOnRefresh)

	httpHandler := handler.NewHTTPHandler(logger, orderService, statusService, trackingService, pricingService)
	checkoutHandler := handler.NewCheckoutHandler(logger, conf.Kafka, orderService)
	trackingHandler := handler.NewTrackingHandler(logger, conf.Kafka, trackingService)
	handler.RegisterMetrics()

	refreshJob := jobs.NewTrackingRefreshJob(trackingService, conf.Tracking.RefreshSchedule, logger)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetConsumers(checkoutHandler, trackingHandler)
	app.SetStarters(orderCache, refreshJob, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})
	app.SetClosers(notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	refreshJob.Stop()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

// cacheWarmUpAdapter loads the latest orders into the cache before the
// http server starts taking reads.
type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
