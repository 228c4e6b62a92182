package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StageKey is the role a column plays on a board. The vocabulary is closed.
type StageKey string

const (
	StageScope      StageKey = "scope"
	StageProduction StageKey = "production"
	StageApproval   StageKey = "approval"
	StageRevision   StageKey = "revision"
	StageScheduling StageKey = "scheduling"
	StageDone       StageKey = "done"
)

// stageAliases maps the labels boards have historically used to a stage key.
var stageAliases = map[string]StageKey{
	"scope":             StageScope,
	"briefing":          StageScope,
	"backlog":           StageScope,
	"todo":              StageScope,
	"production":        StageProduction,
	"in_progress":       StageProduction,
	"doing":             StageProduction,
	"approval":          StageApproval,
	"client_approval":   StageApproval,
	"awaiting_approval": StageApproval,
	"revision":          StageRevision,
	"changes":           StageRevision,
	"rework":            StageRevision,
	"scheduling":        StageScheduling,
	"scheduled":         StageScheduling,
	"publish":           StageScheduling,
	"publishing":        StageScheduling,
	"done":              StageDone,
	"final":             StageDone,
	"completed":         StageDone,
	"published":         StageDone,
}

// ParseStageKey maps a configured label to a stage key, case- and separator-insensitively.
// Unmapped labels are a configuration error.
func ParseStageKey(label string) (StageKey, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if key, ok := stageAliases[norm]; ok {
		return key, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, label)
}

// IsValid checks if the stage is one of the closed vocabulary.
func (s StageKey) IsValid() bool {
	switch s {
	case StageScope, StageProduction, StageApproval, StageRevision, StageScheduling, StageDone:
		return true
	default:
		return false
	}
}

// Board is a container of ordered columns for one client or operational area.
type Board struct {
	ID        string
	Name      string
	AreaKey   string
	ClientID  *string
	Columns   []Column
	CreatedAt time.Time
}

// Column is one stage of a board.
type Column struct {
	ID       string
	BoardID  string
	Name     string
	Position int
	StageKey StageKey
	SLAHours *int
	WIPLimit *int
}

// IsTerminal reports whether tasks in this column are finished.
func (c Column) IsTerminal() bool {
	return c.StageKey == StageDone
}

// ColumnSpec describes a column to create on a new board.
type ColumnSpec struct {
	Name     string
	StageKey StageKey
	SLAHours *int
	WIPLimit *int
}

// BoardSpec describes a board to get or create.
type BoardSpec struct {
	Name     string
	AreaKey  string
	ClientID *string
	Columns  []ColumnSpec
}

// Validate checks the board definition at setup time.
func (s BoardSpec) Validate() error {
	if strings.TrimSpace(s.AreaKey) == "" {
		return fmt.Errorf("%w: area key is required", ErrInvalidBoard)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: at least one column is required", ErrInvalidBoard)
	}
	hasOpen := false
	for i, col := range s.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidBoard, i)
		}
		if !col.StageKey.IsValid() {
			return fmt.Errorf("%w: column %q: %w", ErrInvalidBoard, col.Name, ErrUnknownStage)
		}
		if col.SLAHours != nil && *col.SLAHours <= 0 {
			return fmt.Errorf("%w: column %q sla_hours must be positive", ErrInvalidBoard, col.Name)
		}
		if col.WIPLimit != nil && *col.WIPLimit <= 0 {
			return fmt.Errorf("%w: column %q wip_limit must be positive", ErrInvalidBoard, col.Name)
		}
		if !col.StageKey.IsTerminalKey() {
			hasOpen = true
		}
	}
	if !hasOpen {
		return fmt.Errorf("%w: board needs a non-terminal column", ErrInvalidBoard)
	}
	return nil
}

// IsTerminalKey reports whether the stage marks finished work.
func (s StageKey) IsTerminalKey() bool {
	return s == StageDone
}

// OrderedColumns returns the columns sorted by position.
func (b *Board) OrderedColumns() []Column {
	cols := make([]Column, len(b.Columns))
	copy(cols, b.Columns)
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols
}

// Column returns the column with the given id.
func (b *Board) Column(id string) (Column, bool) {
	for _, c := range b.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// FirstNonTerminalColumn returns the lowest-position column that is not done.
func (b *Board) FirstNonTerminalColumn() (Column, bool) {
	for _, c := range b.OrderedColumns() {
		if !c.IsTerminal() {
			return c, true
		}
	}
	return Column{}, false
}

// FirstColumnMatchingStage returns the lowest-position column with one of the
// candidate stages, trying candidates in preference order.
func (b *Board) FirstColumnMatchingStage(candidates ...StageKey) (Column, bool) {
	cols := b.OrderedColumns()
	for _, want := range candidates {
		for _, c := range cols {
			if c.StageKey == want {
				return c, true
			}
		}
	}
	return Column{}, false
}

// FindStageForward searches columns positioned strictly after from, trying
// candidates in preference order.
func (b *Board) FindStageForward(from Column, candidates ...StageKey) (Column, bool) {
	cols := b.OrderedColumns()
	for _, want := range candidates {
		for _, c := range cols {
			if c.Position > from.Position && c.StageKey == want {
				return c, true
			}
		}
	}
	return Column{}, false
}

// FindStageAnywhere searches the whole board except from itself, trying
// candidates in preference order.
func (b *Board) FindStageAnywhere(from Column, candidates ...StageKey) (Column, bool) {
	cols := b.OrderedColumns()
	for _, want := range candidates {
		for _, c := range cols {
			if c.ID != from.ID && c.StageKey == want {
				return c, true
			}
		}
	}
	return Column{}, false
}

// NextColumn returns the column immediately after from by position.
func (b *Board) NextColumn(from Column) (Column, bool) {
	for _, c := range b.OrderedColumns() {
		if c.Position > from.Position {
			return c, true
		}
	}
	return Column{}, false
}

// NextColumnMatchingStage resolves the destination for a stage move:
// the first forward column with a candidate stage, else a matching column
// anywhere on the board (which may route backwards), else the immediate next
// column. ok is false only when nothing matches and from is the last column.
func (b *Board) NextColumnMatchingStage(from Column, candidates ...StageKey) (Column, bool) {
	if c, ok := b.FindStageForward(from, candidates...); ok {
		return c, true
	}
	if c, ok := b.FindStageAnywhere(from, candidates...); ok {
		return c, true
	}
	return b.NextColumn(from)
}
