package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chipset-komputer/internal/auth"
	"chipset-komputer/internal/config"
	handlers "chipset-komputer/internal/controllers/http"
	"chipset-komputer/internal/infra/cache"
	"chipset-komputer/internal/infra/database"
	"chipset-komputer/internal/infra/rabbitmq"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/repository/gormrepo"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "chipset-komputer",
		Usage: "computer hardware storefront API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:  "create-admin",
				Usage: "create an admin account or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
				},
				Action: createAdmin,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("command failed")
	}
}

func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	configureLogging(cfg)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func configureLogging(cfg *config.Config) {
	if cfg.LogFormat == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func migrate(c *cli.Context) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("database schema is up to date")
	return nil
}

func createAdmin(c *cli.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	authSvc := services.NewAuthService(gormrepo.NewStore(db), sessions)
	user, err := authSvc.EnsureAdmin(c.Context, services.RegisterInput{
		Email:    c.String("email"),
		Password: c.String("password"),
		Name:     c.String("name"),
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "email": user.Email}).Info("admin account ready")
	return nil
}

func serve(c *cli.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)

	store := gormrepo.NewStore(db)

	var (
		redisClient *redis.Client
		appCache    *cache.Cache
	)
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient = cache.NewRedisClient(addr)
		defer redisClient.Close()
		if err := redisClient.Ping(c.Context).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, cache reads will fall through")
		}
		appCache = cache.New(cache.NewRedisStore(redisClient), cfg.CacheTTL)
	} else {
		log.Info("REDIS_HOST not set, caching disabled")
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.LogPublisher{}
	if cfg.RabbitMQURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		publisher = pub
	} else {
		log.Info("RABBITMQ_URL not set, events are only logged")
	}

	enforcer, err := policy.NewEnforcer()
	if err != nil {
		return err
	}
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	notifier := services.NewStockNotificationService(store, enforcer, publisher)

	handler := handlers.NewHandler(handlers.Services{
		Auth:               services.NewAuthService(store, sessions),
		Users:              services.NewUserService(store),
		Categories:         services.NewCategoryService(store, appCache),
		Products:           services.NewProductService(store, appCache, notifier),
		Cart:               services.NewCartService(store, enforcer),
		Coupons:            services.NewCouponService(store),
		Orders:             services.NewOrderService(store, enforcer, publisher, appCache),
		Reviews:            services.NewReviewService(store, appCache),
		Newsletter:         services.NewNewsletterService(store, publisher),
		StockNotifications: notifier,
		Uploads:            services.NewUploadService(cfg.UploadDir, cfg.UploadBaseURL, cfg.UploadMaxBytes),
	}, enforcer, handlers.Options{
		SessionCookie: cfg.SessionCookie,
		SecureCookie:  cfg.SecureCookie,
		UploadDir:     cfg.UploadDir,
		UploadBaseURL: cfg.UploadBaseURL,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), handlers.LogMiddleware())
	r.MaxMultipartMemory = cfg.UploadMaxBytes
	handler.RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.WithField("port", cfg.Port).Info("starting storefront API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server run")
		}
	}()

	waitForKillSignal()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
	return nil
}

func waitForKillSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	switch <-ch {
	case os.Interrupt:
		log.Info("got SIGINT...")
	case syscall.SIGTERM:
		log.Info("got SIGTERM...")
	}
}
