package handler

import (
	"net/http"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler/dto"
)

// handleListApprovals lists tasks awaiting a client's approval.
// Client callers always see their own client; staff pass ?client_id=.
// @Summary List pending approvals
// @Tags approvals
// @Produce json
// @Param client_id query string false "Client ID (staff only)"
// @Success 200 {object} dto.PendingApprovalsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /approvals [get]
func (h *Handler) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if !p.IsStaff() {
		if p.ClientID == nil {
			respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "caller is not linked to a client")
			return
		}
		if clientID != "" && clientID != *p.ClientID {
			respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "cannot list another client's approvals")
			return
		}
		clientID = *p.ClientID
	}

	items, err := h.services.Approvals.ListAwaitingApproval(r.Context(), clientID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToPendingApprovalsResponse(items))
}

// handleApprovalAction applies a client approve / request_changes action.
// @Summary Act on a pending approval
// @Description approve moves the task to scheduling (or done); request_changes needs a comment and moves it to revision.
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.ApprovalActionRequest true "Action"
// @Success 200 {object} dto.ApprovalActionResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /approvals/{id}/actions [post]
func (h *Handler) handleApprovalAction(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task_id")
	if !ok {
		return
	}

	var req dto.ApprovalActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	action, err := domain.ParseApprovalAction(req.Action)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	outcome, err := h.services.Approvals.Act(r.Context(), id, action, p, req.Comment)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToApprovalActionResponse(outcome))
}
