package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/pkg/logger"
)

type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", resp.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch e := err.(type) {
	case *errs.ValidationError:
		log.Warn("validation failed", "error", e.Message)
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_input",
			Message: e.Message,
			Errors:  e.Fields,
		})

	case *errs.AuthError:
		log.Warn("authentication failed", "error", e.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", e.Message)

	case *errs.NotFoundError:
		log.Warn("resource not found", "error", e.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", e.Message)

	case *errs.AlreadyExistsError:
		log.Warn("resource already exists", "error", e.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", e.Message)

	case *errs.DatabaseError:
		log.Error("database error",
			"operation", e.Operation,
			"error", e.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
