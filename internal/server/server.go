// Package server boots the full application: config, Mongo, Redis, storage,
// queue workers, the scheduler, the gRPC health endpoint and the HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndthang/techmart/app/controllers"
	"github.com/ndthang/techmart/app/graph"
	"github.com/ndthang/techmart/app/jobs"
	"github.com/ndthang/techmart/app/repositories"
	"github.com/ndthang/techmart/app/routes"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/config"
	"github.com/ndthang/techmart/pkg/cache"
	"github.com/ndthang/techmart/pkg/graphql"
	grpcserver "github.com/ndthang/techmart/pkg/grpc"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/metrics"
	"github.com/ndthang/techmart/pkg/middleware"
	"github.com/ndthang/techmart/pkg/mongodb"
	"github.com/ndthang/techmart/pkg/queue"
	"github.com/ndthang/techmart/pkg/reqid"
	"github.com/ndthang/techmart/pkg/router"
	"github.com/ndthang/techmart/pkg/schedule"
	"github.com/ndthang/techmart/pkg/storage"
	"github.com/ndthang/techmart/pkg/workerpool"
	"github.com/ndthang/techmart/pkg/ws"
)

const queueWorkers = 4

// Start boots every subsystem and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mongodb.Connect(connectCtx); err != nil {
		return err
	}
	defer mongodb.Disconnect(context.Background())

	setupLogging()

	// Redis is soft-required: without it the catalog cache and the token
	// denylist degrade, but the API still serves.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache and denylist disabled", "err", err)
	}

	storage.Connect()

	// Queue: Redis driver when configured and reachable, in-process otherwise.
	jobs.Register()
	queue.UseMongo(mongodb.Collection("failed_jobs"))
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	hub := ws.NewHub()
	go hub.Run()
	registerListeners(hub)

	db := mongodb.DB()
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	cart := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)

	pool := workerpool.New(8)
	defer pool.Shutdown()

	authSvc := services.NewAuthService(users)
	catalogSvc := services.NewCatalogService(products)
	cartSvc := services.NewCartService(cart, products)
	checkoutSvc := services.NewCheckoutService(orders, cart, users)
	orderSvc := services.NewOrderService(orders, products, users, pool)
	revenueSvc := services.NewRevenueService(orders)
	userAdminSvc := services.NewUserAdminService(users)

	rootQuery := graph.NewRootQuery(catalogSvc)
	schema, err := graphql.NewSchema(rootQuery)
	if err != nil {
		return err
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	routes.RegisterAPI(r, routes.Deps{
		Auth:     controllers.NewAuthController(authSvc),
		Products: controllers.NewProductController(catalogSvc),
		Cart:     controllers.NewCartController(cartSvc),
		Orders:   controllers.NewOrderController(checkoutSvc, orderSvc),
		Admin:    controllers.NewAdminController(catalogSvc, userAdminSvc, orderSvc, revenueSvc),
		GraphQL:  graphql.Handler(schema),
		Hub:      hub,
	})

	schedule.Daily().
		Name("revenue:snapshot-daily").
		WithoutOverlapping().
		Run(func() { revenueSvc.SnapshotDaily(context.Background()) })
	go schedule.Start(ctx)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort(), mongodb.Ping)
	if err != nil {
		return err
	}
	defer grpcserver.Stop(grpcSrv)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// setupLogging mirrors log records into Mongo in production so they survive
// container restarts. Dev keeps the stdout handler from the logger package.
func setupLogging() {
	if config.AppEnv() != "production" && config.AppEnv() != "prod" {
		return
	}
	h, err := logger.NewMongoHandler(config.MongoURI(), config.MongoDB(), "logs")
	if err != nil {
		logger.Warn("mongo log handler disabled", "err", err)
		return
	}
	logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), h))
	slog.SetDefault(logger.L)
}
