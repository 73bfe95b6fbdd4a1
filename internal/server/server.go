package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stock-calculator/internal/interfaces"
	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// QuoteHandler serves quotes over HTTP.
type QuoteHandler struct {
	solver interfaces.Solver
}

func NewQuoteHandler(solver interfaces.Solver) *QuoteHandler {
	return &QuoteHandler{solver: solver}
}

// NewRouter creates the HTTP router
func NewRouter(solver interfaces.Solver) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.ErrorWithErr(r.Context(), "Failed to write health response", err,
				"request_id", GetRequestID(r.Context()))
		}
	})

	h := NewQuoteHandler(solver)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/quote", h.Quote)
	})

	return r
}

// Quote computes a quote for the JSON encoded inputs
// POST /v1/quote
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in types.PricingInputs
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, types.ErrorDetail{
			Code:    types.ErrCodeInvalidJSON,
			Message: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	res, err := h.solver.Solve(ctx, in)
	if err != nil {
		if ve, ok := pricing.AsValidationError(err); ok {
			writeError(w, r, http.StatusUnprocessableEntity, types.ErrorDetail{
				Code:    types.ErrCodeValidation,
				Message: ve.Message,
				Reason:  string(ve.Reason),
				Field:   ve.Field,
			})
			return
		}
		logger.ErrorWithErr(ctx, "Quote failed", err, "request_id", GetRequestID(ctx))
		writeError(w, r, http.StatusInternalServerError, types.ErrorDetail{
			Code:    types.ErrCodeInternalServer,
			Message: "quote could not be computed",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail types.ErrorDetail) {
	detail.RequestID = GetRequestID(r.Context())
	detail.Timestamp = time.Now().UTC()
	writeJSON(w, r, status, types.ErrorResponse{Error: detail})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to encode response", err,
			"request_id", GetRequestID(r.Context()),
			"status", status)
	}
}

// Run serves the quote API on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, solver interfaces.Solver) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(solver),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Quote service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("quote service failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down quote service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("quote service shutdown: %w", err)
	}
	return nil
}
