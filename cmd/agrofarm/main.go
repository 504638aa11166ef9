package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	config "github.com/davicafu/agrofarm/internal/config"
	farmApp "github.com/davicafu/agrofarm/internal/farm/application"
	farmDomain "github.com/davicafu/agrofarm/internal/farm/domain"
	farmHttp "github.com/davicafu/agrofarm/internal/farm/infra/inbound/http"
	farmDB "github.com/davicafu/agrofarm/internal/farm/infra/outbound/db"
	sharedDomain "github.com/davicafu/agrofarm/internal/shared/domain"
	infraEvents "github.com/davicafu/agrofarm/internal/shared/infra/events"
	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/agrofarm/internal/shared/infra/platform/cache"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
	infraRelayer "github.com/davicafu/agrofarm/internal/shared/infra/relayer"
	"github.com/davicafu/agrofarm/pkg/logger"
	"github.com/davicafu/agrofarm/pkg/utils"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	log := logger.Logger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- DB ----------------
	dialect, err := sqlstore.DialectFor(cfg.StoreDriver)
	if err != nil {
		log.Fatal("invalid STORE_DRIVER", zap.Error(err))
	}
	dsn := cfg.SQLitePath
	if dialect.Name == sqlstore.Postgres.Name {
		dsn = cfg.PostgresDSN
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		log.Fatal("failed to open database", zap.String("driver", dialect.Driver), zap.Error(err))
	}
	defer db.Close()
	if dialect.Name == sqlstore.SQLite.Name {
		// SQLite serializa las escrituras.
		db.SetMaxOpenConns(1)
	}

	// Postgres puede tardar en aceptar conexiones al arrancar con docker compose.
	if err := utils.Retry(ctx, 5, 500*time.Millisecond, 5*time.Second, func() error {
		return db.PingContext(ctx)
	}); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}
	if err := farmDB.InitSchema(ctx, db, dialect); err != nil {
		log.Fatal("failed to initialize schema", zap.Error(err))
	}
	log.Info("✅ Base de datos lista", zap.String("dialect", dialect.Name))

	repo := farmDB.NewFarmRepository(db, dialect)
	store := sqlstore.NewStore(db, dialect, farmDB.Writers(), log)
	outboxRepo := sqlstore.NewOutboxRepo(db, dialect)

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	redisCache := sharedCache.NewRedisCache(rdb, "agrofarm", cfg.CacheTTL)
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		memCache := sharedCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		defer rdb.Close()
		cacheInstance = redisCache
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// --------------- Servicio --------------
	farmService := farmApp.NewFarmService(repo, store.NewUnitOfWork, cacheInstance, cfg.CacheTTL, log)

	// ---------------- Events ---------------
	eventRegistry := farmDomain.NewEventRegistry()
	for eventType := range eventRegistry {
		eventRegistry[eventType] = sharedDomain.EventMetadata{Topic: cfg.KafkaTopic}
	}

	var publisher sharedBus.EventBus
	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		kafkaPublisher := infraEvents.NewKafkaPublisher(infraEvents.NewKafkaWriter(cfg.KafkaBrokers), log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		reader := infraEvents.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, "agrofarm-event-log")
		consumer := infraEvents.NewConsumerAdapter(reader, cfg.KafkaTopic, infraEvents.LogHandler(log), log)
		defer consumer.Close()
		consumer.Start(ctx)
	} else {
		log.Info("⚡️ Usando bus de eventos en memoria (canales de Go)")
		bus := infraEvents.NewInMemoryEventBus(log)
		defer bus.Close()
		go infraEvents.LogConsumer(ctx, bus.Subscribe(cfg.KafkaTopic, 100), log)
		publisher = bus
	}

	// ------------ Outbox Worker ------------
	worker := infraRelayer.NewOutboxWorker(outboxRepo, publisher, eventRegistry, cfg.OutboxPeriod, cfg.OutboxLimit, cfg.OutboxMaxRetries, log)
	go worker.Start(ctx)

	// ---------------- HTTP ----------------
	router := gin.New()
	router.Use(gin.Recovery())
	farmHttp.RegisterFarmRoutes(router, farmHttp.NewFarmHandler(farmService, outboxRepo, log))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
