package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/internal/response"
)

type analyticsService interface {
	Summary(ctx context.Context, uid string, args dto.SummaryArgs) (*dto.SummaryResponse, error)
	Stats(ctx context.Context, uid, period string) (*dto.StatsResponse, error)
	CategoryBreakdown(ctx context.Context, uid, period, txType string) ([]dto.CategorySlice, error)
	Trend(ctx context.Context, uid, period string) ([]dto.TrendPoint, error)
	Recent(ctx context.Context, uid string, limit int) ([]dto.TransactionView, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	AnalyticsSvc    analyticsService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)
	r.Get("/charts/categories", h.CategoryChart)
	r.Get("/charts/trend", h.TrendChart)
	r.Get("/recent", h.Recent)
	return r
}

func (h *dashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	period := r.URL.Query().Get("period")

	stats, err := h.AnalyticsSvc.Stats(r.Context(), uid, period)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *dashboardHandlers) CategoryChart(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	qp := r.URL.Query()

	period := qp.Get("period")
	txType := qp.Get("type")
	if txType == "" {
		txType = models.TypeExpense
	}

	slices, err := h.AnalyticsSvc.CategoryBreakdown(r.Context(), uid, period, txType)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, slices)
}

func (h *dashboardHandlers) TrendChart(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	period := r.URL.Query().Get("period")

	points, err := h.AnalyticsSvc.Trend(r.Context(), uid, period)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, points)
}

func (h *dashboardHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	recent, err := h.AnalyticsSvc.Recent(r.Context(), uid, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, recent)
}
