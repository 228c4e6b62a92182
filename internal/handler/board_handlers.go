package handler

import (
	"net/http"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler/dto"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

// handleCreateBoard gets or creates a board by area key.
// @Summary Create a board
// @Description Creates a board, or returns the existing board with the same area_key. Columns default to the configured template.
// @Tags boards
// @Accept json
// @Produce json
// @Param request body dto.CreateBoardRequest true "Board definition"
// @Success 201 {object} dto.BoardResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /boards [post]
func (h *Handler) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var req dto.CreateBoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	spec := domain.BoardSpec{Name: req.Name, AreaKey: req.AreaKey, ClientID: req.ClientID}
	for _, c := range req.Columns {
		stage, err := domain.ParseStageKey(c.Stage)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		spec.Columns = append(spec.Columns, domain.ColumnSpec{
			Name:     c.Name,
			StageKey: stage,
			SLAHours: c.SLAHours,
			WIPLimit: c.WIPLimit,
		})
	}

	board, err := h.services.Boards.CreateBoard(r.Context(), spec)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.ToBoardResponse(board))
}

// handleGetBoard returns a board with its columns.
// @Summary Get a board
// @Tags boards
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} dto.BoardResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /boards/{id} [get]
func (h *Handler) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	id, ok := extractID(w, r, "board_id")
	if !ok {
		return
	}

	board, err := h.services.Boards.GetBoard(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToBoardResponse(board))
}

// handleCreateTask creates a task directly on a board.
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task"
// @Success 201 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BoardID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "board_id is required")
		return
	}

	task, err := h.services.Boards.CreateTask(r.Context(), service.CreateTaskParams{
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		Area:        req.Area,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedBy:   p.UserID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask returns one task. Clients may only read their own tasks.
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task_id")
	if !ok {
		return
	}

	task, err := h.services.Boards.GetTask(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !p.CanActOnTask(task) {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "task belongs to another client")
		return
	}
	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleMoveTask moves a task to another column of its board.
// @Summary Move a task
// @Description Moving into an approval column opens the client approval with a deadline from the column SLA.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.MoveTaskRequest true "Destination column"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/move [post]
func (h *Handler) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	p, ok := requireStaff(w, r)
	if !ok {
		return
	}
	id, ok := extractID(w, r, "task_id")
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ColumnID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "column_id is required")
		return
	}

	task, err := h.services.Boards.MoveTask(r.Context(), id, req.ColumnID, p.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}
