package handlers

import (
	"log/slog"

	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Auth            *middleware.Middleware
	AuthSvc         authService
	CategorySvc     categoryService
	TransactionSvc  transactionService
	AnalyticsSvc    analyticsService
}
