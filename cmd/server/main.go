package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"luxegear-backend/internal/api"
	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/config"
	"luxegear-backend/internal/idempotency"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/service"
	"luxegear-backend/internal/storage"
	"luxegear-backend/internal/store"
	"luxegear-backend/internal/store/memory"
	"luxegear-backend/internal/store/mongostore"
	"luxegear-backend/internal/telemetry"
)

type stores struct {
	products store.ProductStore
	orders   store.OrderStore
	users    store.UserStore
	client   *mongo.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	log := logger.New(logCfg)
	defer func() { _ = log.Sync() }()

	log.Info("Starting LuxeGear API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("store", cfg.Store.Driver),
	)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open stores", zap.Error(err))
	}
	idem, rdb := newIdempotencyStore(cfg, log)

	var images storage.ImageStorage
	if cfg.StorageEnabled() {
		s3Images, err := storage.NewS3ImageStorage(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		images = s3Images
	} else {
		log.Info("Image storage not configured, uploads disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		Logger:   log,
		Resolver: auth.NewResolver(tokens, st.users),
		Catalog:  service.NewCatalogService(st.products, images),
		Orders:   service.NewOrderService(st.products, st.orders, st.users, idem, telemetry.NewMetrics(reg)),
		Accounts: service.NewAccountService(st.users, tokens),
		Admin:    service.NewAdminService(st.products, st.orders, st.users),
		Registry: reg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if st.client != nil {
		if err := st.client.Disconnect(shutdownCtx); err != nil {
			log.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			products: memory.NewProductStore(),
			orders:   memory.NewOrderStore(),
			users:    memory.NewUserStore(),
		}, nil
	}

	log.Info("Connecting to MongoDB", zap.String("database", cfg.Mongo.Database))
	client, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mongostore.EnsureIndexes(indexCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info("MongoDB connected")
	return &stores{
		products: mongostore.NewProductStore(db),
		orders:   mongostore.NewOrderStore(db),
		users:    mongostore.NewUserStore(db),
		client:   client,
	}, nil
}

// newIdempotencyStore uses Redis when an address is configured and process memory otherwise.
func newIdempotencyStore(cfg *config.Config, log *zap.Logger) (idempotency.Store, *redis.Client) {
	if cfg.Redis.Addr == "" {
		log.Info("Redis not configured, idempotency keys kept in memory")
		return idempotency.NewMemoryStore(cfg.Idempotency.TTL), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info("Using Redis for idempotency keys", zap.String("addr", cfg.Redis.Addr))
	return idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL), rdb
}
