package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/kybaloo/expense-management/internal/bootstrap"
	"github.com/kybaloo/expense-management/internal/config"
	"github.com/kybaloo/expense-management/internal/handlers"
	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/response"
	"github.com/kybaloo/expense-management/internal/router"
	"github.com/kybaloo/expense-management/internal/services"
	"github.com/kybaloo/expense-management/internal/store"
	"github.com/kybaloo/expense-management/internal/token"
	"github.com/kybaloo/expense-management/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	_ = godotenv.Load()
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	tokens := token.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	cstore := store.NewCategoryStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)

	// services
	aserv := services.NewAuthService(ustore, tokens)
	cserv := services.NewCategoryService(cstore)
	tserv := services.NewTransactionService(tstore, cstore)
	anserv := services.NewAnalyticsService(tstore, cstore)

	// default categories are shared; seeding is idempotent across restarts
	seedCtx := logger.ToContext(context.Background(), bs.Log)
	err = cserv.SeedDefaults(seedCtx)
	exitOnError("default category seeding failed", err, bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Auth = middleware.NewMiddleware(tokens, rh)
	deps.AuthSvc = aserv
	deps.CategorySvc = cserv
	deps.TransactionSvc = tserv
	deps.AnalyticsSvc = anserv

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
