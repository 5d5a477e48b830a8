// Package transport provides HTTP handlers for the claims domain.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/claims/domain"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/observability/metrics"
)

// Service defines the claims service interface for HTTP transport.
type Service interface {
	Sign(ctx context.Context, req domain.ClaimRequest) (*domain.SignResult, error)
}

// Handler handles HTTP requests for claim signing.
type Handler struct {
	svc Service
}

// NewHandler creates a new claims HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the claims routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sign", h.handleSign)
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	var req SignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.Sign(r.Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		case errors.Is(err, domain.ErrTransactionNotFound):
			h.writeError(w, http.StatusBadRequest, "TRANSACTION_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrTransactionFailed):
			h.writeError(w, http.StatusBadRequest, "TRANSACTION_FAILED", err.Error())
		case errors.Is(err, domain.ErrPurchaseEventNotFound):
			h.writeError(w, http.StatusBadRequest, "PURCHASE_EVENT_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrWalletMismatch):
			h.writeError(w, http.StatusBadRequest, "WALLET_MISMATCH", err.Error())
		case errors.Is(err, domain.ErrNoSignatureCandidates):
			h.writeError(w, http.StatusInternalServerError, "NO_SIGNATURE_CANDIDATES", err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign claim")
		}
		return
	}

	metrics.ClaimSign("success")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	metrics.ClaimSign(code)
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
