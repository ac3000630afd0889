package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	"github.com/Skotchmaster/storefront/pkg/middleware/throttle"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/response"
	"github.com/Skotchmaster/storefront/pkg/validate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := config.Required(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   string(cfg.JWTSecret),
	}); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(ctx, db, logger); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	var contentCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		contentCache = cache.NewRedis(rdb, cfg.ServiceName+":")
		logger.Info("content_cache_redis", "addr", cfg.RedisAddr)
	}

	var events service.EventBus = service.NopEventBus{}
	if len(cfg.KafkaBrokers) > 0 {
		prod := mykafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		defer prod.Close()
		events = &mykafka.OrderEvents{P: prod}
		logger.Info("order_events_kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderEventsTopic)
	}

	var search service.ProductSearcher
	if cfg.ESURL != "" {
		client, err := es.NewClient(es.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		idx := &es.ProductIndex{Client: client, Index: cfg.ESIndex}
		ictx, icancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := idx.EnsureIndex(ictx); err != nil {
			logger.Warn("es_ensure_index_failed", "index", cfg.ESIndex, "error", err)
		}
		icancel()
		search = idx
	}

	files, err := storage.NewLocal(cfg.StorageDir, cfg.PublicStorageURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	r := repo.New(db)
	users := &service.UserService{Repo: r}
	orders := &service.OrderService{Repo: r, Files: files, Events: events}
	catalog := &service.CatalogService{Repo: r, Files: files, Search: search}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = response.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-XSRF-TOKEN"},
	}))
	csrfCfg := csrf.DefaultConfig()
	csrfCfg.TrustedOrigins = cfg.CORSOrigins
	e.Use(csrf.Middleware(csrfCfg))
	e.Use(echomw.BodyLimit("12M"))

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:      r,
				Users:     users,
				JWTSecret: cfg.JWTSecret,
				TokenTTL:  time.Duration(cfg.TokenTTLMinutes) * time.Minute,
			},
			Users: users,
		},
		Catalog:       &httpserver.CatalogHTTP{Svc: catalog},
		Cart:          &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		Order:         &httpserver.OrderHTTP{Svc: orders},
		Address:       &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: r}},
		User:          &httpserver.UserHTTP{Svc: users},
		Content:       &httpserver.ContentHTTP{Svc: &service.ContentService{Repo: r, Cache: contentCache}},
		GuestMessage:  &httpserver.GuestMessageHTTP{Svc: &service.GuestMessageService{Repo: r}},
		Stats:         &httpserver.StatsHTTP{Svc: &service.StatsService{Repo: r}},
		JWTSecret:     cfg.JWTSecret,
		Throttle:      throttle.PerIP(cfg.ThrottleRPS, cfg.ThrottleBurst),
		DB:            db,
		StorageDir:    cfg.StorageDir,
		StoragePrefix: cfg.PublicStorageURL,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}
