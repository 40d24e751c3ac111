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

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context, uid string) error
	Me(ctx context.Context, uid string) (*models.User, error)
}

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         authService
	Auth            *middleware.Middleware
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
		Auth:            deps.Auth,
	}
}

func (h *authHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
	return r
}

func (h *authHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	resp, err := h.AuthSvc.Register(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, resp)
}

func (h *authHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}

	resp, err := h.AuthSvc.Login(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *authHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("Invalid request body"))
		return
	}
	if req.RefreshToken == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewAuthError("Refresh token required"))
		return
	}

	pair, err := h.AuthSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, pair)
}

func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.AuthSvc.Logout(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *authHandlers) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	user, err := h.AuthSvc.Me(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}
