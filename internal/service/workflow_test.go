package service_test

import (
	"context"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/suite"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	f        *fixture
	ctx      context.Context
	clientID string
}

func (s *WorkflowServiceTestSuite) SetupTest() {
	s.f = newFixture()
	s.ctx = context.Background()

	client := s.f.store.AddClient(domain.Client{Name: "Acme Foods", UserID: strPtr("acme-portal")})
	s.clientID = client.ID
	s.f.store.LinkReference(domain.ClientRefContract, "contract-1", client.ID)
	s.f.store.AddStaff(domain.StaffMember{UserID: "ops-1", Area: "operations"})
}

func (s *WorkflowServiceTestSuite) record(trigger string, payload domain.Payload) *domain.WorkflowTransition {
	t, err := s.f.workflow.CreateTransition(s.ctx, service.CreateTransitionParams{
		FromArea:     "commercial",
		ToArea:       "operations",
		TriggerEvent: trigger,
		Payload:      payload,
		CreatedBy:    "sales-1",
	})
	s.Require().NoError(err)
	s.Equal(domain.TransitionStatusPending, t.Status)
	return t
}

func (s *WorkflowServiceTestSuite) TestExecute_CreatesTaskOnClientBoard() {
	tr := s.record("contract.signed", domain.Payload{"contractId": "contract-1"})

	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)
	s.False(result.AlreadyExecuted)
	s.Require().NotNil(result.ClientID)
	s.Equal(s.clientID, *result.ClientID)

	board, err := s.f.store.GetBoard(s.ctx, result.BoardID)
	s.Require().NoError(err)
	s.Equal(service.ClientBoardKey(s.clientID), board.AreaKey)
	s.Equal("Acme Foods", board.Name)

	task, err := s.f.store.GetTask(s.ctx, result.TaskID)
	s.Require().NoError(err)
	s.Equal("Operations: Kick off onboarding", task.Title)
	s.Equal(columnByStage(board, domain.StageScope).ID, task.ColumnID)
	s.Equal(domain.TaskPriorityMedium, task.Priority)
	s.Require().NotNil(task.Links.Provenance)
	s.Equal(tr.ID, task.Links.Provenance.WorkflowTransitionID)
	s.Equal("ops-lead", task.Links.Provenance.ExecutedBy)

	stored, err := s.f.store.GetTransition(s.ctx, tr.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransitionStatusCompleted, stored.Status)
	s.Require().NotNil(stored.CompletedAt)
	s.Equal(result.TaskID, stored.Payload.String(domain.PayloadTaskID))
	s.Equal(result.BoardID, stored.Payload.String(domain.PayloadBoardID))
	s.Equal(t0.Format(time.RFC3339), stored.Payload.String(domain.PayloadExecutedAt))
	s.Equal("ops-lead", stored.Payload.String(domain.PayloadExecutedBy))

	s.Contains(s.f.notifier.targets(), "area:operations")
}

func (s *WorkflowServiceTestSuite) TestExecute_IsIdempotent() {
	tr := s.record("contract.signed", domain.Payload{"contract_id": "contract-1"})

	first, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)
	second, err := s.f.workflow.Execute(s.ctx, tr.ID, "someone-else")
	s.Require().NoError(err)

	s.True(second.AlreadyExecuted)
	s.Equal(first.TaskID, second.TaskID)
	s.Equal(first.BoardID, second.BoardID)
	s.Equal(1, s.f.store.TaskCount())
}

func (s *WorkflowServiceTestSuite) TestExecute_RecoversWhenLedgerUpdateFailed() {
	tr := s.record("contract.signed", domain.Payload{"contract_id": "contract-1"})

	s.f.store.Fail = func(op string) error {
		if op == "UpdateTransition" {
			return errStoreDown
		}
		return nil
	}
	_, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().ErrorIs(err, domain.ErrDownstreamUnavailable)
	s.Equal(1, s.f.store.TaskCount())

	s.f.store.Fail = nil
	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)
	s.True(result.AlreadyExecuted)
	s.Equal(1, s.f.store.TaskCount())

	stored, err := s.f.store.GetTransition(s.ctx, tr.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransitionStatusCompleted, stored.Status)
	s.Equal(result.TaskID, stored.Payload.String(domain.PayloadTaskID))
}

func (s *WorkflowServiceTestSuite) TestExecute_ConcurrentCallsCreateOneTask() {
	tr := s.record("contract.signed", domain.Payload{"contract_id": "contract-1"})

	var wg sync.WaitGroup
	results := make([]*service.ExecutionResult, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
		}(i)
	}
	wg.Wait()

	created := 0
	for i := range results {
		s.Require().NoError(errs[i])
		s.Equal(results[0].TaskID, results[i].TaskID)
		if !results[i].AlreadyExecuted {
			created++
		}
	}
	s.LessOrEqual(created, 1)
	s.Equal(1, s.f.store.TaskCount())
}

func (s *WorkflowServiceTestSuite) TestExecute_FallsBackToAreaBoard() {
	tr := s.record("campaign.requested", domain.Payload{"invoice_id": "unknown-invoice"})

	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)
	s.Nil(result.ClientID)

	board, err := s.f.store.GetBoard(s.ctx, result.BoardID)
	s.Require().NoError(err)
	s.Equal("area:operations", board.AreaKey)
	s.Nil(board.ClientID)
}

func (s *WorkflowServiceTestSuite) TestExecute_AccentedAreaNames() {
	tr, err := s.f.workflow.CreateTransition(s.ctx, service.CreateTransitionParams{
		FromArea:     "comercial",
		ToArea:       "área financeira",
		TriggerEvent: "émission_nf",
		CreatedBy:    "sales-1",
	})
	s.Require().NoError(err)

	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)

	board, err := s.f.store.GetBoard(s.ctx, result.BoardID)
	s.Require().NoError(err)
	s.Equal("Área financeira", board.Name)
	s.True(utf8.ValidString(board.Name))

	task, err := s.f.store.GetTask(s.ctx, result.TaskID)
	s.Require().NoError(err)
	s.Equal("Área financeira: Émission nf", task.Title)
	s.True(utf8.ValidString(task.Title))
}

func (s *WorkflowServiceTestSuite) TestExecute_ResolutionFailureAborts() {
	tr := s.record("contract.signed", domain.Payload{"contract_id": "contract-1"})

	s.f.store.Fail = func(op string) error {
		if op == "ResolveClientID" {
			return errStoreDown
		}
		return nil
	}
	_, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.ErrorIs(err, domain.ErrDownstreamUnavailable)
	s.Zero(s.f.store.TaskCount())

	s.f.store.Fail = nil
	stored, err := s.f.store.GetTransition(s.ctx, tr.ID)
	s.Require().NoError(err)
	s.Equal(domain.TransitionStatusPending, stored.Status)
}

func (s *WorkflowServiceTestSuite) TestExecute_RejectsNonPending() {
	tr := s.record("contract.signed", nil)
	tr.Status = domain.TransitionStatusError
	s.Require().NoError(s.f.store.UpdateTransition(s.ctx, tr))

	_, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.ErrorIs(err, domain.ErrTransitionNotPending)
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *WorkflowServiceTestSuite) TestExecute_UnknownTransition() {
	_, err := s.f.workflow.Execute(s.ctx, "6f1c1f43-0000-4000-8000-000000000000", "ops-lead")
	s.ErrorIs(err, domain.ErrTransitionNotFound)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *WorkflowServiceTestSuite) TestExecute_HonorsPayloadFields() {
	due := t0.Add(5 * 24 * time.Hour)
	tr := s.record("content.submitted", domain.Payload{
		"client_id":   s.clientID,
		"assigned_to": "designer-7",
		"due_date":    due.Format(time.RFC3339),
		"title":       "March carousel",
	})

	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "ops-lead")
	s.Require().NoError(err)

	task, err := s.f.store.GetTask(s.ctx, result.TaskID)
	s.Require().NoError(err)
	s.Equal("March carousel", task.Title)
	s.Require().NotNil(task.AssignedTo)
	s.Equal("designer-7", *task.AssignedTo)
	s.Require().NotNil(task.DueDate)
	s.True(due.Equal(*task.DueDate))

	// content.submitted lands in the approval column with a fresh deadline.
	s.Equal(domain.TaskStatusInReview, task.Status)
	s.Require().NotNil(task.Links.ClientApproval)
	s.True(t0.Add(48 * time.Hour).Equal(*task.Links.ClientApproval.DueAt))
	s.Contains(s.f.notifier.targets(), "user:designer-7")
}

func (s *WorkflowServiceTestSuite) TestExecute_UrgentTriggers() {
	tr := s.record("payment.failed", nil)

	result, err := s.f.workflow.Execute(s.ctx, tr.ID, "")
	s.Require().NoError(err)

	task, err := s.f.store.GetTask(s.ctx, result.TaskID)
	s.Require().NoError(err)
	s.Equal(domain.TaskPriorityUrgent, task.Priority)
	s.Nil(task.CreatedBy)
}

func (s *WorkflowServiceTestSuite) TestCreateTransition_Validation() {
	_, err := s.f.workflow.CreateTransition(s.ctx, service.CreateTransitionParams{FromArea: "a", ToArea: " "})
	s.ErrorIs(err, domain.ErrMissingField)
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *WorkflowServiceTestSuite) TestListTransitions_FiltersByStatus() {
	done := s.record("contract.signed", domain.Payload{"contract_id": "contract-1"})
	s.record("campaign.requested", nil)
	_, err := s.f.workflow.Execute(s.ctx, done.ID, "ops-lead")
	s.Require().NoError(err)

	pending, err := s.f.workflow.ListTransitions(s.ctx, domain.TransitionStatusPending, 0)
	s.Require().NoError(err)
	s.Len(pending, 1)

	_, err = s.f.workflow.ListTransitions(s.ctx, "archived", 0)
	s.ErrorIs(err, domain.ErrInvalidStatus)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
