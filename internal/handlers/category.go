package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/internal/response"
)

type categoryService interface {
	List(ctx context.Context, uid string) ([]*models.Category, error)
	Create(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, uid, categoryID string, req dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, uid, categoryID string) error
}

type categoryHandlers struct {
	ResponseHandler response.ResponseHandler
	CategorySvc     categoryService
}

func NewCategoryHandlers(deps *Deps) *categoryHandlers {
	return &categoryHandlers{
		ResponseHandler: deps.ResponseHandler,
		CategorySvc:     deps.CategorySvc,
	}
}

func (h *categoryHandlers) CategoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{categoryId}", h.Update)
	r.Delete("/{categoryId}", h.Delete)
	return r
}

func (h *categoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	categories, err := h.CategorySvc.List(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, categories)
}

func (h *categoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	category, err := h.CategorySvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, category)
}

func (h *categoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	var req dto.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	category, err := h.CategorySvc.Update(r.Context(), uid, categoryID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, category)
}

func (h *categoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	uid := middleware.UID(r.Context())

	if err := h.CategorySvc.Delete(r.Context(), uid, categoryID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
