package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

func riskBoard() *domain.Board {
	return &domain.Board{
		ID:   "board-1",
		Name: "Acme Foods",
		Columns: []domain.Column{
			{ID: "col-prod", Name: "Production", Position: 0, StageKey: domain.StageProduction, WIPLimit: intPtr(2)},
			{ID: "col-appr", Name: "Client Approval", Position: 1, StageKey: domain.StageApproval},
			{ID: "col-done", Name: "Done", Position: 2, StageKey: domain.StageDone},
		},
	}
}

func riskTask(id, columnID string, due *time.Time, priority domain.TaskPriority) *domain.Task {
	return &domain.Task{
		ID:        id,
		BoardID:   "board-1",
		ColumnID:  columnID,
		Title:     "Task " + id,
		Status:    domain.TaskStatusInProgress,
		Priority:  priority,
		DueDate:   due,
		UpdatedAt: t0,
	}
}

func at(d time.Duration) *time.Time {
	t := t0.Add(d)
	return &t
}

func TestScoreRisk(t *testing.T) {
	board := riskBoard()
	prod, _ := board.Column("col-prod")
	appr, _ := board.Column("col-appr")
	done, _ := board.Column("col-done")

	tests := []struct {
		name    string
		task    *domain.Task
		col     domain.Column
		now     time.Time
		want    int
		reasons int
	}{
		{"no signals", riskTask("a", prod.ID, nil, domain.TaskPriorityMedium), prod, t0, 0, 0},
		{"due in 3 days", riskTask("a", prod.ID, at(60*time.Hour), domain.TaskPriorityMedium), prod, t0, 55, 1},
		{"due within a day", riskTask("a", prod.ID, at(20*time.Hour), domain.TaskPriorityMedium), prod, t0, 75, 1},
		{"past due", riskTask("a", prod.ID, at(-time.Hour), domain.TaskPriorityMedium), prod, t0, 100, 1},
		{"urgent and due soon", riskTask("a", prod.ID, at(20*time.Hour), domain.TaskPriorityUrgent), prod, t0, 85, 2},
		{"high and stale", riskTask("a", prod.ID, nil, domain.TaskPriorityHigh), prod, t0.Add(4 * 24 * time.Hour), 14, 2},
		{"clamped", riskTask("a", prod.ID, at(-time.Hour), domain.TaskPriorityUrgent), prod, t0.Add(8 * 24 * time.Hour), 100, 3},
		{"finished column", riskTask("a", done.ID, at(-time.Hour), domain.TaskPriorityUrgent), done, t0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ScoreRisk(tt.task, tt.col, tt.now)
			assert.Equal(t, tt.want, got.Score)
			assert.Len(t, got.Reasons, tt.reasons)
		})
	}

	t.Run("approval deadline", func(t *testing.T) {
		task := riskTask("a", appr.ID, nil, domain.TaskPriorityMedium)
		task.Links.ClientApproval = &domain.ApprovalState{DueAt: at(10 * time.Hour), Status: domain.ApprovalStatusPending}
		assert.Equal(t, 80, service.ScoreRisk(task, appr, t0).Score)
		assert.Equal(t, 95, service.ScoreRisk(task, appr, t0.Add(11*time.Hour)).Score)
	})

	t.Run("decided approval has no floor", func(t *testing.T) {
		for _, status := range []domain.ApprovalStatus{domain.ApprovalStatusApproved, domain.ApprovalStatusChangesRequested} {
			task := riskTask("a", appr.ID, nil, domain.TaskPriorityMedium)
			task.Links.ClientApproval = &domain.ApprovalState{DueAt: at(-time.Hour), Status: status}
			got := service.ScoreRisk(task, appr, t0)
			assert.Zero(t, got.Score, status)
			assert.Empty(t, got.Reasons, status)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		task := riskTask("a", prod.ID, at(-time.Hour), domain.TaskPriorityUrgent)
		task.Status = domain.TaskStatusCancelled
		assert.Zero(t, service.ScoreRisk(task, prod, t0).Score)
	})
}

func TestScoreRisk_MonotonicInLateness(t *testing.T) {
	board := riskBoard()
	prod, _ := board.Column("col-prod")
	task := riskTask("a", prod.ID, at(5*24*time.Hour), domain.TaskPriorityMedium)

	prev := -1
	for h := 0; h <= 7*24; h += 6 {
		score := service.ScoreRisk(task, prod, t0.Add(time.Duration(h)*time.Hour)).Score
		require.GreaterOrEqual(t, score, prev, "hour %d", h)
		prev = score
	}
}

func TestSummarizeBoard(t *testing.T) {
	board := riskBoard()
	tasks := []*domain.Task{
		riskTask("late", "col-prod", at(-2*time.Hour), domain.TaskPriorityHigh),
		riskTask("soon", "col-prod", at(20*time.Hour), domain.TaskPriorityMedium),
		riskTask("calm", "col-appr", nil, domain.TaskPriorityLow),
		riskTask("shipped", "col-done", at(-48*time.Hour), domain.TaskPriorityUrgent),
	}
	tasks[3].Status = domain.TaskStatusCompleted

	got := service.SummarizeBoard(board, tasks, t0, 1)

	assert.Equal(t, "board-1", got.BoardID)
	assert.Equal(t, 4, got.Metrics.Total)
	assert.Equal(t, 1, got.Metrics.Done)
	assert.Equal(t, 1, got.Metrics.Overdue)
	assert.Equal(t, 2, got.Metrics.AtRisk)
	assert.Equal(t, []service.Bottleneck{{ColumnID: "col-prod", ColumnName: "Production", Count: 2, WIPLimit: 2}}, got.Metrics.Bottlenecks)

	assert.Equal(t, 2, got.Risk.Count)
	require.Len(t, got.Risk.Top, 1)
	assert.Equal(t, "late", got.Risk.Top[0].TaskID)
	assert.Equal(t, 100, got.Risk.Top[0].Score)
}

func TestSummarizeBoard_EmptyBoard(t *testing.T) {
	got := service.SummarizeBoard(riskBoard(), nil, t0, 5)
	assert.Zero(t, got.Metrics.Total)
	assert.NotNil(t, got.Metrics.Bottlenecks)
	assert.NotNil(t, got.Risk.Top)
}

func TestInsightsService_BoardInsights(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	board, err := f.boards.CreateBoard(ctx, domain.BoardSpec{AreaKey: "area:social"})
	require.NoError(t, err)
	due := t0.Add(-time.Hour)
	_, err = f.boards.CreateTask(ctx, service.CreateTaskParams{BoardID: board.ID, Title: "Late post", DueDate: &due})
	require.NoError(t, err)

	insights, err := f.insights.BoardInsights(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, insights.Metrics.Overdue)
	require.Len(t, insights.Risk.Top, 1)
	assert.Equal(t, "Late post", insights.Risk.Top[0].Title)
	assert.True(t, t0.Equal(insights.GeneratedAt))

	_, err = f.insights.BoardInsights(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBoardNotFound)
}
