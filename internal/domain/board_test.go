package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *Board {
	// Positions deliberately out of slice order.
	return &Board{
		ID: "b",
		Columns: []Column{
			{ID: "done", Name: "Done", Position: 5, StageKey: StageDone},
			{ID: "scope", Name: "Scope", Position: 0, StageKey: StageScope},
			{ID: "prod", Name: "Production", Position: 1, StageKey: StageProduction},
			{ID: "appr", Name: "Approval", Position: 2, StageKey: StageApproval},
			{ID: "rev", Name: "Revision", Position: 3, StageKey: StageRevision},
			{ID: "sched", Name: "Scheduling", Position: 4, StageKey: StageScheduling},
		},
	}
}

func TestParseStageKey(t *testing.T) {
	tests := []struct {
		label string
		want  StageKey
	}{
		{"scope", StageScope},
		{"Client Approval", StageApproval},
		{"in-progress", StageProduction},
		{" Published ", StageDone},
		{"REWORK", StageRevision},
	}
	for _, tt := range tests {
		got, err := ParseStageKey(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}

	_, err := ParseStageKey("limbo")
	assert.ErrorIs(t, err, ErrUnknownStage)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBoard_StageLookups(t *testing.T) {
	b := testBoard()
	appr, _ := b.Column("appr")
	sched, _ := b.Column("sched")

	first, ok := b.FirstNonTerminalColumn()
	require.True(t, ok)
	assert.Equal(t, "scope", first.ID)

	c, ok := b.FirstColumnMatchingStage(StageScheduling, StageDone)
	require.True(t, ok)
	assert.Equal(t, "sched", c.ID)

	c, ok = b.FindStageForward(appr, StageProduction, StageRevision)
	require.True(t, ok)
	assert.Equal(t, "rev", c.ID, "production lies behind, revision ahead")

	_, ok = b.FindStageForward(sched, StageRevision)
	assert.False(t, ok)

	c, ok = b.FindStageAnywhere(sched, StageRevision)
	require.True(t, ok)
	assert.Equal(t, "rev", c.ID)

	_, ok = b.FindStageAnywhere(appr, StageApproval)
	assert.False(t, ok, "from itself never matches")
}

func TestBoard_NextColumnMatchingStage(t *testing.T) {
	b := testBoard()
	prod, _ := b.Column("prod")
	sched, _ := b.Column("sched")
	done, _ := b.Column("done")

	c, ok := b.NextColumnMatchingStage(prod, StageScheduling)
	require.True(t, ok)
	assert.Equal(t, "sched", c.ID)

	c, ok = b.NextColumnMatchingStage(sched, StageScope)
	require.True(t, ok)
	assert.Equal(t, "scope", c.ID, "routes backwards when nothing ahead matches")

	c, ok = b.NextColumnMatchingStage(prod, "nonexistent")
	require.True(t, ok)
	assert.Equal(t, "appr", c.ID, "falls back to the immediate next column")

	_, ok = b.NextColumnMatchingStage(done, "nonexistent")
	assert.False(t, ok)
}

func TestBoardSpec_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name string
		spec BoardSpec
		ok   bool
	}{
		{"valid", BoardSpec{AreaKey: "k", Columns: []ColumnSpec{{Name: "A", StageKey: StageScope}}}, true},
		{"no key", BoardSpec{Columns: []ColumnSpec{{Name: "A", StageKey: StageScope}}}, false},
		{"no columns", BoardSpec{AreaKey: "k"}, false},
		{"only terminal", BoardSpec{AreaKey: "k", Columns: []ColumnSpec{{Name: "D", StageKey: StageDone}}}, false},
		{"bad sla", BoardSpec{AreaKey: "k", Columns: []ColumnSpec{{Name: "A", StageKey: StageScope, SLAHours: &zero}}}, false},
		{"unnamed", BoardSpec{AreaKey: "k", Columns: []ColumnSpec{{StageKey: StageScope}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidBoard)
		})
	}
}

func TestApprovalState_DeadlineAndHistory(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var a ApprovalState
	a.EnsureDeadline(t0, 48*time.Hour)
	assert.Equal(t, ApprovalStatusPending, a.Status)
	assert.True(t, t0.Add(48*time.Hour).Equal(*a.DueAt))

	// A derived deadline is never recomputed.
	a.EnsureDeadline(t0.Add(24*time.Hour), time.Hour)
	assert.True(t, t0.Add(48*time.Hour).Equal(*a.DueAt))

	a.Append(ApprovalHistoryEntry{Action: ApprovalActionRequested, At: t0.Add(time.Hour)})
	a.Append(ApprovalHistoryEntry{Action: ApprovalActionApprove, At: t0})
	require.Len(t, a.History, 2)
	assert.True(t, a.History[1].At.Equal(a.History[0].At), "out-of-order entries are clamped")

	assert.False(t, a.IsOverdue(t0.Add(47*time.Hour)))
	assert.True(t, a.IsOverdue(t0.Add(49*time.Hour)))
	assert.False(t, (*ApprovalState)(nil).IsOverdue(t0))

	c := a.Clone()
	c.History[0].Comment = "changed"
	assert.Empty(t, a.History[0].Comment)
}

func TestAlertState(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var a AlertState
	assert.True(t, a.Due(t0, 24*time.Hour))

	a = a.Stamped(t0)
	assert.Equal(t, 1, a.Count)
	assert.False(t, a.Due(t0.Add(23*time.Hour), 24*time.Hour))
	assert.True(t, a.Due(t0.Add(24*time.Hour), 24*time.Hour))
	assert.Equal(t, 2, a.Stamped(t0.Add(24*time.Hour)).Count)
}

func TestPayload(t *testing.T) {
	p := Payload{
		"contractId": "c-1",
		"amount":     float64(1200),
		"due_date":   "2026-03-10T12:00:00Z",
		"bad_date":   "next week",
		"blank":      "  ",
	}
	assert.Equal(t, "c-1", p.String(PayloadContractID))
	assert.Equal(t, "1200", p.String("amount"))
	assert.Empty(t, p.String("blank"))
	assert.Equal(t, "c-1", p.String("missing", "contract_id"))

	due := p.Time(PayloadDueDate)
	require.NotNil(t, due)
	assert.Equal(t, 10, due.Day())
	assert.Nil(t, p.Time("bad_date"))

	refs := (&WorkflowTransition{Payload: Payload{"invoice_id": "i-1", "client_id": "cl-1"}}).ClientRefs()
	assert.Equal(t, []ClientRef{{Kind: ClientRefDirect, ID: "cl-1"}, {Kind: ClientRefInvoice, ID: "i-1"}}, refs)
}
