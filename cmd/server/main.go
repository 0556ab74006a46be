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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velikanov/storefront/internal/config"
	"github.com/velikanov/storefront/internal/es"
	"github.com/velikanov/storefront/internal/events"
	"github.com/velikanov/storefront/internal/handlers"
	"github.com/velikanov/storefront/internal/logging"
	"github.com/velikanov/storefront/internal/metrics"
	authmw "github.com/velikanov/storefront/internal/middleware/auth"
	loggingmw "github.com/velikanov/storefront/internal/middleware/logging"
	"github.com/velikanov/storefront/internal/session"
	httpserver "github.com/velikanov/storefront/internal/transport/http"
	"github.com/velikanov/storefront/internal/view"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("template init error: %v", err)
	}

	registry := prometheus.NewRegistry()

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.New(registry).Middleware())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		if rerr := handlers.RenderError(c, code, cfg.SITE_URL); rerr != nil {
			e.DefaultHTTPErrorHandler(err, c)
		}
	}

	codec := session.NewCodec(cfg.AUTH_SECRET)
	guard := &authmw.Middleware{
		DB:         db,
		Codec:      codec,
		CookieName: cfg.AUTH_COOKIE_NAME,
		LoginURL:   cfg.SITE_URL + "/admin/login",
	}

	deps := httpserver.Deps{
		Shop: &handlers.ShopHandler{DB: db, SiteURL: cfg.SITE_URL},
		Cart: &handlers.CartHandler{
			DB:         db,
			Producer:   producer,
			CookieName: cfg.CART_COOKIE_NAME,
			SiteURL:    cfg.SITE_URL,
		},
		Auth: &handlers.AuthHandler{
			DB:         db,
			Codec:      codec,
			Producer:   producer,
			Auth:       guard,
			CookieName: cfg.AUTH_COOKIE_NAME,
			SiteURL:    cfg.SITE_URL,
		},
		Admin: &handlers.AdminHandler{
			DB:       db,
			ES:       esClient,
			Producer: producer,
			ImageDir: cfg.IMAGE_DIR,
			SiteURL:  cfg.SITE_URL,
		},
		Search:   &handlers.SearchHandler{ES: esClient},
		AuthMW:   guard,
		Registry: registry,
		ImageDir: cfg.IMAGE_DIR,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.APP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", cfg.APP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
