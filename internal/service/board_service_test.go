package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

type BoardServiceTestSuite struct {
	suite.Suite
	f      *fixture
	ctx    context.Context
	client *domain.Client
	board  *domain.Board
}

func (s *BoardServiceTestSuite) SetupTest() {
	s.f = newFixture()
	s.ctx = context.Background()
	s.client = s.f.store.AddClient(domain.Client{Name: "Acme Foods", UserID: strPtr("acme-portal")})

	board, err := s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{
		Name:     s.client.Name,
		AreaKey:  service.ClientBoardKey(s.client.ID),
		ClientID: &s.client.ID,
	})
	s.Require().NoError(err)
	s.board = board
}

func (s *BoardServiceTestSuite) TestCreateBoard_UsesTemplateAndIsIdempotent() {
	s.Len(s.board.Columns, 6)
	ordered := s.board.OrderedColumns()
	s.Equal(domain.StageScope, ordered[0].StageKey)
	s.Equal(domain.StageDone, ordered[len(ordered)-1].StageKey)

	again, err := s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{AreaKey: service.ClientBoardKey(s.client.ID)})
	s.Require().NoError(err)
	s.Equal(s.board.ID, again.ID)

	area, err := s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{AreaKey: "area:social"})
	s.Require().NoError(err)
	s.Equal("area:social", area.Name)
}

func (s *BoardServiceTestSuite) TestCreateBoard_Validation() {
	_, err := s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{AreaKey: " "})
	s.ErrorIs(err, domain.ErrInvalidBoard)

	_, err = s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{
		AreaKey: "area:finished",
		Columns: []domain.ColumnSpec{{Name: "Done", StageKey: domain.StageDone}},
	})
	s.ErrorIs(err, domain.ErrInvalidBoard)

	_, err = s.f.boards.CreateBoard(s.ctx, domain.BoardSpec{
		AreaKey: "area:broken",
		Columns: []domain.ColumnSpec{{Name: "Doing", StageKey: "limbo"}},
	})
	s.ErrorIs(err, domain.ErrUnknownStage)
}

func (s *BoardServiceTestSuite) TestCreateTask_Defaults() {
	task, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{
		BoardID:    s.board.ID,
		Title:      "  Monthly report ",
		AssignedTo: "analyst-2",
		CreatedBy:  "lead-1",
	})
	s.Require().NoError(err)

	s.Equal("Monthly report", task.Title)
	s.Equal(domain.TaskPriorityMedium, task.Priority)
	s.Equal(domain.TaskStatusPending, task.Status)
	s.Equal(columnByStage(s.board, domain.StageScope).ID, task.ColumnID)
	s.Require().NotNil(task.ClientID)
	s.Equal(s.client.ID, *task.ClientID)
	s.Contains(s.f.notifier.targets(), "user:analyst-2")
}

func (s *BoardServiceTestSuite) TestCreateTask_Errors() {
	_, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID})
	s.ErrorIs(err, domain.ErrMissingField)

	_, err = s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, Title: "x", Priority: "asap"})
	s.ErrorIs(err, domain.ErrInvalidPriority)

	_, err = s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: "nope", Title: "x"})
	s.ErrorIs(err, domain.ErrBoardNotFound)

	_, err = s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, ColumnID: "nope", Title: "x"})
	s.ErrorIs(err, domain.ErrColumnNotFound)
}

func (s *BoardServiceTestSuite) TestMoveTask_IntoApprovalOpensRecord() {
	task, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, Title: "Carousel"})
	s.Require().NoError(err)

	s.f.clock.Advance(time.Hour)
	moved, err := s.f.boards.MoveTask(s.ctx, task.ID, columnByStage(s.board, domain.StageApproval).ID, "designer-7")
	s.Require().NoError(err)

	s.Equal(domain.TaskStatusInReview, moved.Status)
	approval := moved.Links.ClientApproval
	s.Require().NotNil(approval)
	s.Equal(domain.ApprovalStatusPending, approval.Status)
	s.True(t0.Add(time.Hour).Equal(*approval.RequestedAt))
	s.True(t0.Add(49 * time.Hour).Equal(*approval.DueAt))
	s.Require().Len(approval.History, 1)
	s.Equal("Scope", approval.History[0].FromColumn)
	s.Equal("Client Approval", approval.History[0].ToColumn)

	s.Contains(s.f.notifier.targets(), "user:acme-portal")
}

func (s *BoardServiceTestSuite) TestMoveTask_ReenteringApprovalKeepsDeadline() {
	task, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, Title: "Carousel"})
	s.Require().NoError(err)
	approvalCol := columnByStage(s.board, domain.StageApproval)

	first, err := s.f.boards.MoveTask(s.ctx, task.ID, approvalCol.ID, "designer-7")
	s.Require().NoError(err)
	due := *first.Links.ClientApproval.DueAt

	s.f.clock.Advance(10 * time.Hour)
	_, err = s.f.boards.MoveTask(s.ctx, task.ID, columnByStage(s.board, domain.StageRevision).ID, "designer-7")
	s.Require().NoError(err)
	s.f.clock.Advance(10 * time.Hour)
	again, err := s.f.boards.MoveTask(s.ctx, task.ID, approvalCol.ID, "designer-7")
	s.Require().NoError(err)

	s.True(due.Equal(*again.Links.ClientApproval.DueAt))
	s.Len(again.Links.ClientApproval.History, 2)
}

func (s *BoardServiceTestSuite) TestMoveTask_ToDoneCompletes() {
	task, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, Title: "Carousel"})
	s.Require().NoError(err)

	moved, err := s.f.boards.MoveTask(s.ctx, task.ID, columnByStage(s.board, domain.StageDone).ID, "lead-1")
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusCompleted, moved.Status)

	events := s.f.store.AuditEvents()
	s.Equal(domain.AuditTaskMoved, events[len(events)-1].Action)
}

func (s *BoardServiceTestSuite) TestMoveTask_SameColumnIsNoop() {
	task, err := s.f.boards.CreateTask(s.ctx, service.CreateTaskParams{BoardID: s.board.ID, Title: "Carousel"})
	s.Require().NoError(err)
	before := len(s.f.store.AuditEvents())

	moved, err := s.f.boards.MoveTask(s.ctx, task.ID, task.ColumnID, "lead-1")
	s.Require().NoError(err)
	s.Equal(domain.TaskStatusPending, moved.Status)
	s.Len(s.f.store.AuditEvents(), before)

	_, err = s.f.boards.MoveTask(s.ctx, task.ID, "nope", "lead-1")
	s.ErrorIs(err, domain.ErrColumnNotFound)
}

func TestBoardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BoardServiceTestSuite))
}
