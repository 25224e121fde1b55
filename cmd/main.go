package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notekeeper/config"
	"github.com/oksasatya/notekeeper/internal/container"
	mongoinfra "github.com/oksasatya/notekeeper/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/notekeeper/internal/infrastructure/postgres"
	"github.com/oksasatya/notekeeper/internal/infrastructure/search"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
	"github.com/oksasatya/notekeeper/internal/router"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/mailer"
	"github.com/oksasatya/notekeeper/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Storage backend
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to create mongo indexes: %v", err)
		}
		container.SetMongo(db)
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	// Redis backs rate limits and session revocation; without it both degrade to in-process.
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb, 3*time.Second); err != nil {
			logger.WithError(err).Warn("redis unavailable; rate limiting disabled and logouts kept in memory")
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
		}
	}

	// Outgoing mail
	sender, closeMail := buildMailSender(cfg, logger)
	defer closeMail()
	container.SetMailSender(sender)

	// Elasticsearch (optional note search)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		if err := search.NewNoteIndex(es, cfg.ESNotesIndex, logger).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index unavailable; searching the store instead")
		} else {
			container.SetES(es)
		}
	}

	// GCS (note exports)
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))

	metricsReg := prometheus.NewRegistry()
	metricsReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	container.SetMetricsRegistry(metricsReg)

	// Gin engine and global middleware
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList(), cfg.TrustedPlatform); err != nil {
		logger.Fatalf("trusted proxies: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderAuthToken, middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.Build(r, router.BuildStores(), middleware.Metrics(middleware.NewHTTPMetrics(metricsReg)))
	logger.WithField("modules", reg.Names()).Info("routes registered")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildMailSender prefers the queue, then direct Mailgun, then logging only.
func buildMailSender(cfg *config.Config, logger *logrus.Logger) (mailer.Sender, func()) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; verification and reset links will be logged")
		return mailer.LogSender{Logger: logger}, noop
	}
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err == nil {
			return mailer.QueueSender{Pub: pub}, pub.Close
		}
		logger.WithError(err).Warn("rabbitmq unavailable; sending mail in-process")
	}
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender).WithAPIBase(cfg.MailgunAPIBase)
	if mg.Configured() {
		return mailer.DirectSender{Mailgun: mg}, noop
	}
	logger.Warn("no mail transport configured; links will be logged")
	return mailer.LogSender{Logger: logger}, noop
}
