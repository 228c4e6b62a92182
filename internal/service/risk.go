package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// Risk score floors and increments.
const (
	riskApprovalOverdue = 95
	riskApprovalSoon    = 80
	riskTaskOverdue     = 100
	riskDueWithinDay    = 75
	riskDueWithin3Days  = 55

	riskStaleWeek     = 15
	riskStale3Days    = 8
	riskUrgent        = 10
	riskHighPriority  = 6
	approvalSoonLimit = 12 * time.Hour

	// AtRiskThreshold is the score from which a task counts as at risk.
	AtRiskThreshold = 70
)

// RiskAssessment is a task's risk score with the reasons behind it.
type RiskAssessment struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// ScoreRisk scores a task from 0 to 100. Finished or cancelled tasks score 0.
// The deadline signals set a floor; staleness and priority add on top.
func ScoreRisk(task *domain.Task, col domain.Column, now time.Time) RiskAssessment {
	if col.IsTerminal() || task.Status == domain.TaskStatusCancelled || task.Status == domain.TaskStatusCompleted {
		return RiskAssessment{}
	}

	var r RiskAssessment
	floor := func(v int, reason string) {
		if v > r.Score {
			r.Score = v
		}
		r.Reasons = append(r.Reasons, reason)
	}

	if col.StageKey == domain.StageApproval {
		if a := task.Links.ClientApproval; a != nil && a.Status == domain.ApprovalStatusPending && a.DueAt != nil {
			switch left := a.DueAt.Sub(now); {
			case left < 0:
				floor(riskApprovalOverdue, "client approval overdue")
			case left <= approvalSoonLimit:
				floor(riskApprovalSoon, "client approval due within 12h")
			}
		}
	}

	if task.DueDate != nil {
		switch left := task.DueDate.Sub(now); {
		case left < 0:
			floor(riskTaskOverdue, "past due date")
		case left <= 24*time.Hour:
			floor(riskDueWithinDay, "due within 24h")
		case left <= 72*time.Hour:
			floor(riskDueWithin3Days, "due within 3 days")
		}
	}

	switch idle := now.Sub(task.UpdatedAt); {
	case idle > 7*24*time.Hour:
		r.Score += riskStaleWeek
		r.Reasons = append(r.Reasons, "no activity for over 7 days")
	case idle > 3*24*time.Hour:
		r.Score += riskStale3Days
		r.Reasons = append(r.Reasons, "no activity for over 3 days")
	}

	switch task.Priority {
	case domain.TaskPriorityUrgent:
		r.Score += riskUrgent
		r.Reasons = append(r.Reasons, "urgent priority")
	case domain.TaskPriorityHigh:
		r.Score += riskHighPriority
		r.Reasons = append(r.Reasons, "high priority")
	}

	r.Score = min(max(r.Score, 0), 100)
	return r
}

// BoardInsights summarizes a board's workload and its riskiest tasks.
type BoardInsights struct {
	BoardID     string       `json:"board_id"`
	BoardName   string       `json:"board_name"`
	GeneratedAt time.Time    `json:"generated_at"`
	Metrics     BoardMetrics `json:"metrics"`
	Risk        RiskSummary  `json:"risk"`
}

// BoardMetrics are the board-level counters.
type BoardMetrics struct {
	Total       int          `json:"total"`
	Done        int          `json:"done"`
	Overdue     int          `json:"overdue"`
	AtRisk      int          `json:"at_risk"`
	Bottlenecks []Bottleneck `json:"bottlenecks"`
}

// Bottleneck is a column holding at least its WIP limit.
type Bottleneck struct {
	ColumnID   string `json:"column_id"`
	ColumnName string `json:"column_name"`
	Count      int    `json:"count"`
	WIPLimit   int    `json:"wip_limit"`
}

// RiskSummary lists the highest-scoring tasks.
type RiskSummary struct {
	Count int          `json:"count"`
	Top   []RankedTask `json:"top"`
}

// RankedTask is one entry of the risk ranking.
type RankedTask struct {
	TaskID     string   `json:"task_id"`
	Title      string   `json:"title"`
	ColumnID   string   `json:"column_id"`
	ColumnName string   `json:"column_name"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons,omitempty"`
}

// SummarizeBoard computes insights for a board from its tasks.
func SummarizeBoard(board *domain.Board, tasks []*domain.Task, now time.Time, topN int) BoardInsights {
	out := BoardInsights{
		BoardID:     board.ID,
		BoardName:   board.Name,
		GeneratedAt: now,
		Metrics:     BoardMetrics{Bottlenecks: []Bottleneck{}},
		Risk:        RiskSummary{Top: []RankedTask{}},
	}

	perColumn := make(map[string]int)
	var ranked []RankedTask
	for _, t := range tasks {
		col, _ := board.Column(t.ColumnID)
		out.Metrics.Total++
		perColumn[col.ID]++

		finished := col.IsTerminal() || t.Status == domain.TaskStatusCompleted
		if finished {
			out.Metrics.Done++
		}
		if !finished && t.Status != domain.TaskStatusCancelled && t.IsOverdue(now) {
			out.Metrics.Overdue++
		}

		risk := ScoreRisk(t, col, now)
		if risk.Score >= AtRiskThreshold {
			out.Metrics.AtRisk++
		}
		if risk.Score > 0 {
			ranked = append(ranked, RankedTask{
				TaskID:     t.ID,
				Title:      t.Title,
				ColumnID:   col.ID,
				ColumnName: col.Name,
				Score:      risk.Score,
				Reasons:    risk.Reasons,
			})
		}
	}

	for _, col := range board.OrderedColumns() {
		if col.WIPLimit != nil && perColumn[col.ID] >= *col.WIPLimit {
			out.Metrics.Bottlenecks = append(out.Metrics.Bottlenecks, Bottleneck{
				ColumnID:   col.ID,
				ColumnName: col.Name,
				Count:      perColumn[col.ID],
				WIPLimit:   *col.WIPLimit,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	out.Risk.Count = out.Metrics.AtRisk
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out.Risk.Top = append(out.Risk.Top, ranked...)
	return out
}

// InsightsService computes read-only board insights.
type InsightsService struct {
	stores Stores
	cfg    config.Engine

	Now func() time.Time
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(stores Stores, cfg config.Engine) *InsightsService {
	return &InsightsService{stores: stores, cfg: cfg.WithDefaults(), Now: systemClock}
}

// BoardInsights loads a board and its tasks and summarizes them. It never writes.
func (s *InsightsService) BoardInsights(ctx context.Context, boardID string) (*BoardInsights, error) {
	board, err := s.stores.Boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.stores.Tasks.ListTasksByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for board %s: %w", boardID, err)
	}
	insights := SummarizeBoard(board, tasks, s.Now(), s.cfg.RiskTopN)
	return &insights, nil
}
