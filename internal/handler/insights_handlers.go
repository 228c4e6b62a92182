package handler

import (
	"log/slog"
	"net/http"
)

// handleBoardInsights returns board metrics and the riskiest tasks.
// @Summary Board insights
// @Description Read-only metrics (total, done, overdue, at risk, bottlenecks) and the top tasks by risk score.
// @Tags boards
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} service.BoardInsights
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /boards/{id}/insights [get]
func (h *Handler) handleBoardInsights(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	id, ok := extractID(w, r, "board_id")
	if !ok {
		return
	}

	insights, err := h.services.Insights.BoardInsights(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

// handleRunOverdueScan runs the overdue scan once. When only one pass fails
// the counters of the other are returned with a warning.
// @Summary Run the overdue scan
// @Description Notifies owners of overdue tasks and clients with overdue approvals, at most once per renotify interval. A pass that cannot list its candidates is reported in warnings; 503 only when every pass failed.
// @Tags scans
// @Produce json
// @Success 200 {object} service.ScanResult
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /scans/overdue [post]
func (h *Handler) handleRunOverdueScan(w http.ResponseWriter, r *http.Request) {
	p, ok := requireStaff(w, r)
	if !ok {
		return
	}

	result, err := h.services.Scanner.Run(r.Context())
	if err != nil {
		if !result.Partial() {
			slog.Error("overdue scan failed", "requested_by", p.UserID, "error", err)
			respondDomainError(w, err)
			return
		}
		slog.Warn("overdue scan partially failed", "requested_by", p.UserID, "error", err)
	}
	respondJSON(w, http.StatusOK, result)
}
