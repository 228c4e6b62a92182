package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vallemarketing/valle360-teste-sub010/docs" // Import generated docs
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler/dto"
	"github.com/vallemarketing/valle360-teste-sub010/internal/metrics"
	"github.com/vallemarketing/valle360-teste-sub010/internal/middleware"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
	"github.com/vallemarketing/valle360-teste-sub010/internal/static"
)

// Services groups the services the HTTP layer calls.
type Services struct {
	Workflow  *service.WorkflowService
	Boards    *service.BoardService
	Approvals *service.ApprovalService
	Scanner   *service.EscalationScanner
	Insights  *service.InsightsService
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	services       Services
	authMiddleware *middleware.AuthMiddleware
	ping           func(ctx context.Context) error
}

// New creates a new Handler. ping reports store health for /healthz; nil means always healthy.
func New(services Services, auth *middleware.AuthMiddleware, ping func(ctx context.Context) error) *Handler {
	return &Handler{
		services:       services,
		authMiddleware: auth,
		ping:           ping,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /integration.md", h.handleIntegrationMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	auth := func(fn http.HandlerFunc) http.Handler { return h.authMiddleware.Authenticate(fn) }

	mux.Handle("POST /api/v1/transitions", auth(h.handleCreateTransition))
	mux.Handle("GET /api/v1/transitions", auth(h.handleListTransitions))
	mux.Handle("GET /api/v1/transitions/{id}", auth(h.handleGetTransition))
	mux.Handle("POST /api/v1/transitions/{id}/execute", auth(h.handleExecuteTransition))

	mux.Handle("POST /api/v1/boards", auth(h.handleCreateBoard))
	mux.Handle("GET /api/v1/boards/{id}", auth(h.handleGetBoard))
	mux.Handle("GET /api/v1/boards/{id}/insights", auth(h.handleBoardInsights))

	mux.Handle("POST /api/v1/tasks", auth(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks/{id}", auth(h.handleGetTask))
	mux.Handle("POST /api/v1/tasks/{id}/move", auth(h.handleMoveTask))

	mux.Handle("GET /api/v1/approvals", auth(h.handleListApprovals))
	mux.Handle("POST /api/v1/approvals/{id}/actions", auth(h.handleApprovalAction))

	mux.Handle("POST /api/v1/scans/overdue", auth(h.handleRunOverdueScan))
}

// handleHealthz returns 200 OK if the store is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			slog.Error("database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// handleIntegrationMd serves the embedded guide for event producers.
func (h *Handler) handleIntegrationMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IntegrationMd))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err through the domain taxonomy.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// principal extracts the caller, answering 401 when absent.
func principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, err := middleware.GetPrincipalFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return domain.Principal{}, false
	}
	return p, true
}

// requireStaff extracts the caller and answers 403 unless they are staff.
func requireStaff(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := principal(w, r)
	if !ok {
		return p, false
	}
	if !p.IsStaff() {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "staff access required")
		return p, false
	}
	return p, true
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID")
		return "", false
	}

	return id, true
}

// decodeJSON decodes the request body, answering 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}
