package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/response"
)

type transactionService interface {
	Create(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*dto.TransactionView, error)
	Get(ctx context.Context, uid, transactionID string) (*dto.TransactionView, error)
	Update(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*dto.TransactionView, error)
	Delete(ctx context.Context, uid, transactionID string) error
	List(ctx context.Context, uid string, args dto.ListTransactionsArgs) (*dto.ListTransactionsResponse, error)
}

type transactionSummaryService interface {
	Summary(ctx context.Context, uid string, args dto.SummaryArgs) (*dto.SummaryResponse, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	SummarySvc      transactionSummaryService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionSvc:  deps.TransactionSvc,
		SummarySvc:      deps.AnalyticsSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary/stats", h.Summary) // must be before /{transactionId}
	r.Get("/{transactionId}", h.Get)
	r.Put("/{transactionId}", h.Update)
	r.Delete("/{transactionId}", h.Delete)
	return r
}

func (h *transactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	qp := r.URL.Query()

	args := dto.ListTransactionsArgs{
		Page:   intParam(qp.Get("page"), 1),
		Limit:  intParam(qp.Get("limit"), 10),
		Search: qp.Get("search"),
	}
	if v := qp.Get("type"); v != "" {
		args.Type = &v
	}
	if v := qp.Get("category"); v != "" {
		args.CategoryID = &v
	}
	var err error
	if args.StartDate, err = timeParam(qp.Get("startDate")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if args.EndDate, err = timeParam(qp.Get("endDate")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.TransactionSvc.List(r.Context(), uid, args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *transactionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	view, err := h.TransactionSvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, view)
}

func (h *transactionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())

	view, err := h.TransactionSvc.Get(r.Context(), uid, transactionID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *transactionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	view, err := h.TransactionSvc.Update(r.Context(), uid, transactionID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *transactionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	uid := middleware.UID(r.Context())

	if err := h.TransactionSvc.Delete(r.Context(), uid, transactionID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *transactionHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	qp := r.URL.Query()

	var args dto.SummaryArgs
	var err error
	if args.StartDate, err = timeParam(qp.Get("startDate")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if args.EndDate, err = timeParam(qp.Get("endDate")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.SummarySvc.Summary(r.Context(), uid, args)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func timeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errs.NewValidationError("Date must be valid",
		errs.FieldError{Field: "date", Message: "Date must be valid"})
}
