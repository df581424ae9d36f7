package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "p2p-lending-backend/internal/adapter/http"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/app"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/cache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		app.Fatal(app.NewLogger(os.Stderr, "info"), "config", err)
	}
	log := app.InstallLogger(os.Stdout, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		app.Fatal(log, "config", err)
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, log, true)
	if err != nil {
		app.Fatal(log, "bootstrap", err)
	}
	defer a.Close()

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		app.Fatal(log, "redis", err)
	}
	defer rdb.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.RequestID(), middleware.RequestLogger(log), echomw.Recover())

	sqlDB, err := a.DB.DB()
	if err != nil {
		app.Fatal(log, "database handle", err)
	}
	httpadp.Router{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "database", Fn: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Fn: func(ctx context.Context) error { return cache.Ping(ctx, rdb) }},
		),
		Borrow:      httpadp.NewBorrowHandler(a.Borrows, a.Documents),
		Admin:       httpadp.NewAdminHandler(a.Borrows, a.Campaigns, a.Repayments),
		Campaigns:   httpadp.NewCampaignHandler(a.Campaigns, a.Contributions),
		Repayments:  httpadp.NewRepaymentHandler(a.Repayments),
		Dashboard:   httpadp.NewDashboardHandler(a.Dashboard),
		Webhooks:    httpadp.NewWebhookHandler(a.Provider, a.Contributions.HandlePaymentWebhook, a.Repayments.HandleRepaymentWebhook, log),
		JWTSecret:   []byte(cfg.JWTSecret),
		Idempotency: middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
	}.Register(e)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Fatal(log, "server", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("stopped")
}

