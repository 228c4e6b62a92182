package handler

import (
	"net/http"
	"strconv"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler/dto"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

// handleCreateTransition records a handoff between two areas.
// @Summary Record a workflow transition
// @Description Records a pending handoff produced by a business event. Execute it to materialize a task.
// @Tags transitions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransitionRequest true "Transition"
// @Success 201 {object} dto.TransitionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transitions [post]
func (h *Handler) handleCreateTransition(w http.ResponseWriter, r *http.Request) {
	p, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.services.Workflow.CreateTransition(r.Context(), service.CreateTransitionParams{
		FromArea:     req.FromArea,
		ToArea:       req.ToArea,
		TriggerEvent: req.TriggerEvent,
		Payload:      domain.Payload(req.Payload),
		CreatedBy:    p.UserID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTransitionResponse(t))
}

// handleListTransitions lists ledger entries.
// @Summary List workflow transitions
// @Tags transitions
// @Produce json
// @Param status query string false "pending, completed or error"
// @Param limit query int false "Max results (default 100, max 500)"
// @Success 200 {object} dto.TransitionsListResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transitions [get]
func (h *Handler) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.services.Workflow.ListTransitions(r.Context(), domain.TransitionStatus(query.Get("status")), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := dto.TransitionsListResponse{Transitions: make([]dto.TransitionResponse, 0, len(items))}
	for _, t := range items {
		resp.Transitions = append(resp.Transitions, dto.ToTransitionResponse(t))
	}
	resp.Total = len(resp.Transitions)
	respondJSON(w, http.StatusOK, resp)
}

// handleGetTransition returns one ledger entry.
// @Summary Get a workflow transition
// @Tags transitions
// @Produce json
// @Param id path string true "Transition ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transitions/{id} [get]
func (h *Handler) handleGetTransition(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	id, ok := extractID(w, r, "transition_id")
	if !ok {
		return
	}

	t, err := h.services.Workflow.GetTransition(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToTransitionResponse(t))
}

// handleExecuteTransition materializes a transition into a task. Safe to retry.
// @Summary Execute a workflow transition
// @Description Creates the task for a pending transition, or returns the existing one with already_executed=true.
// @Tags transitions
// @Produce json
// @Param id path string true "Transition ID"
// @Success 200 {object} service.ExecutionResult "Already executed"
// @Success 201 {object} service.ExecutionResult "Task created"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transitions/{id}/execute [post]
func (h *Handler) handleExecuteTransition(w http.ResponseWriter, r *http.Request) {
	p, ok := requireStaff(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "transition_id")
	if !ok {
		return
	}

	result, err := h.services.Workflow.Execute(r.Context(), id, p.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyExecuted {
		status = http.StatusOK
	}
	respondJSON(w, status, result)
}
