package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kybaloo/expense-management/internal/handlers"
	"github.com/kybaloo/expense-management/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandlers(deps)
	ch := handlers.NewCategoryHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)

	r.Mount("/auth", ah.AuthRoutes())

	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.RequireAuth)
		r.Mount("/categories", ch.CategoryRoutes())
		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/dashboard", dh.DashboardRoutes())
	})

	return r
}
