package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler/dto"
	"github.com/vallemarketing/valle360-teste-sub010/internal/middleware"
	"github.com/vallemarketing/valle360-teste-sub010/internal/notify"
	"github.com/vallemarketing/valle360-teste-sub010/internal/repository/memstore"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

const testSecret = "handler-test-secret"

type HandlerTestSuite struct {
	suite.Suite
	store *memstore.Store
	mux   *http.ServeMux
	ping  error

	// Test fixtures
	client      *domain.Client
	otherClient *domain.Client
	staffToken  string
	clientToken string
	otherToken  string
}

func (s *HandlerTestSuite) SetupTest() {
	s.store = memstore.New()
	s.ping = nil

	stores := service.Stores{
		Transitions: s.store,
		Boards:      s.store,
		Tasks:       s.store,
		Clients:     s.store,
		Audit:       s.store,
	}
	columns, err := config.DefaultBoardTemplate().ColumnSpecs()
	s.Require().NoError(err)
	cfg := config.DefaultEngine()
	dispatcher := notify.NewDispatcher(s.store, s.store, nil)

	h := handler.New(handler.Services{
		Workflow:  service.NewWorkflowService(stores, dispatcher, columns, cfg),
		Boards:    service.NewBoardService(stores, dispatcher, columns, cfg),
		Approvals: service.NewApprovalService(stores, dispatcher, cfg),
		Scanner:   service.NewEscalationScanner(stores, dispatcher, nil, cfg),
		Insights:  service.NewInsightsService(stores, cfg),
	}, middleware.NewAuthMiddleware(testSecret, s.store), func(context.Context) error { return s.ping })

	s.mux = http.NewServeMux()
	h.RegisterRoutes(s.mux)

	s.client = s.store.AddClient(domain.Client{Name: "Acme Foods", UserID: ptr("acme-portal")})
	s.otherClient = s.store.AddClient(domain.Client{Name: "Other Co", UserID: ptr("other-portal")})
	s.store.LinkReference(domain.ClientRefContract, "contract-1", s.client.ID)
	s.store.AddStaff(domain.StaffMember{UserID: "ops-1", Area: "operations"})

	s.staffToken = s.token(domain.Principal{UserID: "lead-1", Role: domain.RoleStaff})
	// Client tokens carry no client_id claim; the middleware resolves it.
	s.clientToken = s.token(domain.Principal{UserID: "acme-portal", Role: domain.RoleClient})
	s.otherToken = s.token(domain.Principal{UserID: "other-portal", Role: domain.RoleClient})
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func ptr(s string) *string { return &s }

func (s *HandlerTestSuite) token(p domain.Principal) string {
	tok, err := middleware.IssueToken(testSecret, p, time.Hour)
	s.Require().NoError(err)
	return tok
}

// Helper to make authenticated request
func (s *HandlerTestSuite) makeRequest(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(w.Body).Decode(v))
}

func (s *HandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var errResp dto.ErrorResponse
	s.decode(w, &errResp)
	return errResp.Error.Code
}

func (s *HandlerTestSuite) createTransition(trigger string, payload map[string]any) dto.TransitionResponse {
	w := s.makeRequest("POST", "/api/v1/transitions", s.staffToken, dto.CreateTransitionRequest{
		FromArea:     "commercial",
		ToArea:       "operations",
		TriggerEvent: trigger,
		Payload:      payload,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.TransitionResponse
	s.decode(w, &resp)
	return resp
}

// awaitingApprovalTask executes a contract handoff and moves the task into approval.
func (s *HandlerTestSuite) awaitingApprovalTask() (taskID string) {
	tr := s.createTransition("contract.signed", map[string]any{"contract_id": "contract-1"})
	w := s.makeRequest("POST", "/api/v1/transitions/"+tr.ID+"/execute", s.staffToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var result service.ExecutionResult
	s.decode(w, &result)

	w = s.makeRequest("GET", "/api/v1/boards/"+result.BoardID, s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var board dto.BoardResponse
	s.decode(w, &board)

	var approvalColumn string
	for _, c := range board.Columns {
		if c.StageKey == string(domain.StageApproval) {
			approvalColumn = c.ID
		}
	}
	s.Require().NotEmpty(approvalColumn)

	w = s.makeRequest("POST", "/api/v1/tasks/"+result.TaskID+"/move", s.staffToken, dto.MoveTaskRequest{ColumnID: approvalColumn})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return result.TaskID
}

func (s *HandlerTestSuite) TestHealthz() {
	w := s.makeRequest("GET", "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)

	s.ping = errors.New("connection refused")
	w = s.makeRequest("GET", "/healthz", "", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlerTestSuite) TestIntegrationGuide() {
	w := s.makeRequest("GET", "/integration.md", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/markdown")
	s.Contains(w.Body.String(), "/api/v1/transitions")
}

func (s *HandlerTestSuite) TestUnauthenticated() {
	w := s.makeRequest("POST", "/api/v1/transitions", "", dto.CreateTransitionRequest{})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.makeRequest("GET", "/api/v1/approvals", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	forged, err := middleware.IssueToken("wrong-secret", domain.Principal{UserID: "lead-1", Role: domain.RoleStaff}, time.Hour)
	s.Require().NoError(err)
	w = s.makeRequest("GET", "/api/v1/transitions", forged, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestClientCannotUseStaffEndpoints() {
	w := s.makeRequest("POST", "/api/v1/transitions", s.clientToken, dto.CreateTransitionRequest{
		FromArea: "a", ToArea: "b", TriggerEvent: "c",
	})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("INSUFFICIENT_ACCESS", s.errorCode(w))
}

func (s *HandlerTestSuite) TestCreateTransition_ValidationError() {
	w := s.makeRequest("POST", "/api/v1/transitions", s.staffToken, dto.CreateTransitionRequest{FromArea: "commercial"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(w))
}

func (s *HandlerTestSuite) TestExecuteTransition_Idempotent() {
	tr := s.createTransition("contract.signed", map[string]any{"contract_id": "contract-1"})
	s.Equal("pending", tr.Status)

	w := s.makeRequest("POST", "/api/v1/transitions/"+tr.ID+"/execute", s.staffToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var first service.ExecutionResult
	s.decode(w, &first)
	s.False(first.AlreadyExecuted)
	s.Require().NotNil(first.ClientID)
	s.Equal(s.client.ID, *first.ClientID)

	w = s.makeRequest("POST", "/api/v1/transitions/"+tr.ID+"/execute", s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var second service.ExecutionResult
	s.decode(w, &second)
	s.True(second.AlreadyExecuted)
	s.Equal(first.TaskID, second.TaskID)
	s.Equal(1, s.store.TaskCount())

	w = s.makeRequest("GET", "/api/v1/transitions/"+tr.ID, s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stored dto.TransitionResponse
	s.decode(w, &stored)
	s.Equal("completed", stored.Status)
	s.Equal(first.TaskID, stored.Payload["task_id"])

	// The area staff got a message-center notification.
	s.Len(s.store.Inbox("ops-1"), 1)
}

func (s *HandlerTestSuite) TestExecuteTransition_Errors() {
	w := s.makeRequest("POST", "/api/v1/transitions/not-a-uuid/execute", s.staffToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.makeRequest("POST", "/api/v1/transitions/00000000-0000-4000-8000-000000000001/execute", s.staffToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("TRANSITION_NOT_FOUND", s.errorCode(w))

	tr := s.createTransition("contract.signed", map[string]any{"contract_id": "contract-1"})
	s.store.Fail = func(op string) error {
		if op == "ResolveClientID" {
			return errors.New("connection refused")
		}
		return nil
	}
	w = s.makeRequest("POST", "/api/v1/transitions/"+tr.ID+"/execute", s.staffToken, nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("DOWNSTREAM_UNAVAILABLE", s.errorCode(w))
}

func (s *HandlerTestSuite) TestListTransitions() {
	s.createTransition("contract.signed", nil)
	s.createTransition("invoice.overdue", nil)

	w := s.makeRequest("GET", "/api/v1/transitions?status=pending", s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.TransitionsListResponse
	s.decode(w, &list)
	s.Equal(2, list.Total)

	w = s.makeRequest("GET", "/api/v1/transitions?status=bogus", s.staffToken, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("GET", "/api/v1/transitions?limit=-1", s.staffToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateBoard_UnknownStage() {
	w := s.makeRequest("POST", "/api/v1/boards", s.staffToken, dto.CreateBoardRequest{
		AreaKey: "area:social",
		Columns: []dto.ColumnRequest{{Name: "Doing", Stage: "limbo"}},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestCreateBoardAndTask() {
	w := s.makeRequest("POST", "/api/v1/boards", s.staffToken, dto.CreateBoardRequest{
		Name:    "Social",
		AreaKey: "area:social",
		Columns: []dto.ColumnRequest{
			{Name: "Backlog", Stage: "backlog"},
			{Name: "Review", Stage: "Client Approval", SLAHours: intPtr(24)},
			{Name: "Live", Stage: "published"},
		},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var board dto.BoardResponse
	s.decode(w, &board)
	s.Require().Len(board.Columns, 3)
	s.Equal("approval", board.Columns[1].StageKey)

	w = s.makeRequest("POST", "/api/v1/tasks", s.staffToken, dto.CreateTaskRequest{
		BoardID:  board.ID,
		ColumnID: board.Columns[1].ID,
		Title:    "Launch post",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskResponse
	s.decode(w, &task)
	s.Equal("in_review", task.Status)
	s.Require().NotNil(task.ClientApproval)
	s.Equal(24*time.Hour, task.ClientApproval.DueAt.Sub(*task.ClientApproval.RequestedAt))

	w = s.makeRequest("GET", "/api/v1/boards/"+board.ID+"/insights", s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var insights service.BoardInsights
	s.decode(w, &insights)
	s.Equal(1, insights.Metrics.Total)
}

func (s *HandlerTestSuite) TestApprovalFlow() {
	taskID := s.awaitingApprovalTask()

	w := s.makeRequest("GET", "/api/v1/approvals", s.clientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var pending dto.PendingApprovalsResponse
	s.decode(w, &pending)
	s.Require().Equal(1, pending.Total)
	s.Equal(taskID, pending.Approvals[0].TaskID)
	s.NotNil(pending.Approvals[0].DueAt)

	// The portal user was told about the request.
	s.Len(s.store.Inbox("acme-portal"), 1)

	w = s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.clientToken, dto.ApprovalActionRequest{
		Action:  "request_changes",
		Comment: "too short",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("COMMENT_TOO_SHORT", s.errorCode(w))

	w = s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.clientToken, dto.ApprovalActionRequest{
		Action:  "request_changes",
		Comment: "Please swap the hero image.",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var outcome dto.ApprovalActionResponse
	s.decode(w, &outcome)
	s.Equal("Client Approval", outcome.FromColumn)
	s.Equal("Revision", outcome.ToColumn)

	w = s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.clientToken, dto.ApprovalActionRequest{Action: "approve"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("NOT_AWAITING_APPROVAL", s.errorCode(w))
}

func (s *HandlerTestSuite) TestApprovalAction_OtherClientForbidden() {
	taskID := s.awaitingApprovalTask()

	w := s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.otherToken, dto.ApprovalActionRequest{Action: "approve"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.makeRequest("GET", "/api/v1/tasks/"+taskID, s.otherToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.makeRequest("GET", "/api/v1/approvals?client_id="+s.client.ID, s.otherToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.clientToken, dto.ApprovalActionRequest{Action: "maybe"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("INVALID_ACTION", s.errorCode(w))
}

func (s *HandlerTestSuite) TestRunOverdueScan() {
	w := s.makeRequest("POST", "/api/v1/scans/overdue", s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var result service.ScanResult
	s.decode(w, &result)
	s.Equal(service.ScanResult{}, result)

	w = s.makeRequest("POST", "/api/v1/scans/overdue", s.clientToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestRunOverdueScan_OnePassFailing() {
	s.store.Fail = func(op string) error {
		if op == "ListOverdueTasks" {
			return errors.New("connection refused")
		}
		return nil
	}

	w := s.makeRequest("POST", "/api/v1/scans/overdue", s.staffToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result service.ScanResult
	s.decode(w, &result)
	s.Require().Len(result.Warnings, 1)
	s.Contains(result.Warnings[0], "list overdue tasks")
}

func (s *HandlerTestSuite) TestRunOverdueScan_EveryPassFailing() {
	s.store.Fail = func(op string) error {
		if op == "ListOverdueTasks" || op == "ListApprovalsDue" {
			return errors.New("connection refused")
		}
		return nil
	}

	w := s.makeRequest("POST", "/api/v1/scans/overdue", s.staffToken, nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("DOWNSTREAM_UNAVAILABLE", s.errorCode(w))
}

func (s *HandlerTestSuite) TestApprovalAction_StoreOutage() {
	taskID := s.awaitingApprovalTask()
	s.store.Fail = func(op string) error {
		if op == "UpdatePlacement" {
			return errors.New("connection refused")
		}
		return nil
	}

	w := s.makeRequest("POST", "/api/v1/approvals/"+taskID+"/actions", s.clientToken, dto.ApprovalActionRequest{Action: "approve"})
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("DOWNSTREAM_UNAVAILABLE", s.errorCode(w))
}

func intPtr(i int) *int { return &i }
