// Package memstore is an in-memory implementation of the record store ports.
// It backs the service and handler tests and the serve --memory mode.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

// Store keeps every record in maps guarded by one mutex. Records are copied
// on the way in and out so callers never alias stored state.
type Store struct {
	mu sync.RWMutex

	transitions map[string]*domain.WorkflowTransition
	boards      map[string]*domain.Board
	boardByKey  map[string]string
	columns     map[string]domain.Column
	tasks       map[string]*domain.Task
	taskOrder   []string
	clients     map[string]*domain.Client
	clientUsers map[string]string
	refs        map[domain.ClientRefKind]map[string]string
	staff       []domain.StaffMember
	inbox       []domain.InboxMessage
	audit       []domain.AuditEvent

	// Now stamps created_at and updated_at.
	Now func() time.Time

	// Fail, when set, is consulted before each operation; a non-nil result is
	// returned, wrapped as a downstream failure, instead of running it. Tests
	// use it to inject store outages.
	Fail func(op string) error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		transitions: make(map[string]*domain.WorkflowTransition),
		boards:      make(map[string]*domain.Board),
		boardByKey:  make(map[string]string),
		columns:     make(map[string]domain.Column),
		tasks:       make(map[string]*domain.Task),
		clients:     make(map[string]*domain.Client),
		clientUsers: make(map[string]string),
		refs:        make(map[domain.ClientRefKind]map[string]string),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) check(op string) error {
	if s.Fail == nil {
		return nil
	}
	return domain.Unavailable(op, s.Fail(op))
}

// AddClient registers a client.
func (s *Store) AddClient(c domain.Client) *domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.Now()
	}
	s.clients[c.ID] = &c
	if c.UserID != nil {
		s.clientUsers[*c.UserID] = c.ID
	}
	out := c
	return &out
}

// LinkReference records that a contract, invoice or proposal belongs to a client.
func (s *Store) LinkReference(kind domain.ClientRefKind, id, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs[kind] == nil {
		s.refs[kind] = make(map[string]string)
	}
	s.refs[kind][id] = clientID
}

// AddStaff registers a staff member in an area.
func (s *Store) AddStaff(m domain.StaffMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = append(s.staff, m)
}

// --- transitions ---

func (s *Store) GetTransition(_ context.Context, id string) (*domain.WorkflowTransition, error) {
	if err := s.check("GetTransition"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transitions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, id)
	}
	return cloneTransition(t), nil
}

func (s *Store) CreateTransition(_ context.Context, t *domain.WorkflowTransition) (*domain.WorkflowTransition, error) {
	if err := s.check("CreateTransition"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneTransition(t)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.TransitionStatusPending
	}
	now := s.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.transitions[c.ID] = c
	return cloneTransition(c), nil
}

func (s *Store) UpdateTransition(_ context.Context, t *domain.WorkflowTransition) error {
	if err := s.check("UpdateTransition"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.transitions[t.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTransitionNotFound, t.ID)
	}
	c := cloneTransition(t)
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.Now()
	s.transitions[t.ID] = c
	return nil
}

func (s *Store) ListTransitions(_ context.Context, status domain.TransitionStatus, limit int) ([]*domain.WorkflowTransition, error) {
	if err := s.check("ListTransitions"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.WorkflowTransition
	for _, t := range s.transitions {
		if status == "" || t.Status == status {
			out = append(out, cloneTransition(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- boards ---

func (s *Store) GetBoard(_ context.Context, id string) (*domain.Board, error) {
	if err := s.check("GetBoard"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBoardNotFound, id)
	}
	return cloneBoard(b), nil
}

func (s *Store) GetOrCreateBoard(_ context.Context, spec domain.BoardSpec) (*domain.Board, error) {
	if err := s.check("GetOrCreateBoard"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.boardByKey[spec.AreaKey]; ok {
		return cloneBoard(s.boards[id]), nil
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	b := &domain.Board{
		ID:        uuid.NewString(),
		Name:      spec.Name,
		AreaKey:   spec.AreaKey,
		ClientID:  spec.ClientID,
		CreatedAt: s.Now(),
	}
	for i, cs := range spec.Columns {
		col := domain.Column{
			ID:       uuid.NewString(),
			BoardID:  b.ID,
			Name:     cs.Name,
			Position: i,
			StageKey: cs.StageKey,
			SLAHours: cs.SLAHours,
			WIPLimit: cs.WIPLimit,
		}
		b.Columns = append(b.Columns, col)
		s.columns[col.ID] = col
	}
	s.boards[b.ID] = b
	s.boardByKey[b.AreaKey] = b.ID
	return cloneBoard(b), nil
}

func (s *Store) GetColumn(_ context.Context, id string) (*domain.Column, error) {
	if err := s.check("GetColumn"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.columns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrColumnNotFound, id)
	}
	return &c, nil
}

// --- tasks ---

func (s *Store) GetTask(_ context.Context, id string) (*domain.Task, error) {
	if err := s.check("GetTask"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return cloneTask(t), nil
}

func (s *Store) CreateTask(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if err := s.check("CreateTask"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := t.Links.Provenance; p != nil {
		if s.findByTransitionLocked(p.WorkflowTransitionID) != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateProvenance, p.WorkflowTransitionID)
		}
	}
	c := cloneTask(t)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	s.tasks[c.ID] = c
	s.taskOrder = append(s.taskOrder, c.ID)
	return cloneTask(c), nil
}

func (s *Store) findByTransitionLocked(transitionID string) *domain.Task {
	for _, id := range s.taskOrder {
		t := s.tasks[id]
		if t.Links.Provenance != nil && t.Links.Provenance.WorkflowTransitionID == transitionID {
			return t
		}
	}
	return nil
}

func (s *Store) FindTaskByTransition(_ context.Context, transitionID string) (*domain.Task, error) {
	if err := s.check("FindTaskByTransition"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.findByTransitionLocked(transitionID)
	if t == nil {
		return nil, fmt.Errorf("%w: no task for transition %s", domain.ErrTaskNotFound, transitionID)
	}
	return cloneTask(t), nil
}

func (s *Store) UpdatePlacement(_ context.Context, taskID, columnID string, status domain.TaskStatus, approval *domain.ApprovalState) error {
	if err := s.check("UpdatePlacement"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	t.ColumnID = columnID
	t.Status = status
	t.Links.ClientApproval = approval.Clone()
	t.UpdatedAt = s.Now()
	return nil
}

func (s *Store) StampAlert(_ context.Context, taskID string, kind domain.AlertKind, state domain.AlertState) error {
	if err := s.check("StampAlert"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	if t.Links.Alerts == nil {
		t.Links.Alerts = make(map[domain.AlertKind]domain.AlertState)
	}
	t.Links.Alerts[kind] = state
	return nil
}

func (s *Store) ListTasksByBoard(_ context.Context, boardID string) ([]*domain.Task, error) {
	if err := s.check("ListTasksByBoard"); err != nil {
		return nil, err
	}
	return s.filterTasks(0, func(t *domain.Task) bool { return t.BoardID == boardID }), nil
}

func (s *Store) ListOverdueTasks(_ context.Context, page domain.ScanPage) ([]*domain.Task, error) {
	if err := s.check("ListOverdueTasks"); err != nil {
		return nil, err
	}
	return s.scanPage(page, domain.AlertOverdueTask, func(t *domain.Task) bool {
		col, ok := s.columns[t.ColumnID]
		return t.IsOverdue(page.Now) && ok && !col.IsTerminal()
	}), nil
}

func (s *Store) ListApprovalsDue(_ context.Context, page domain.ScanPage) ([]*domain.Task, error) {
	if err := s.check("ListApprovalsDue"); err != nil {
		return nil, err
	}
	return s.scanPage(page, domain.AlertClientApprovalOverdue, func(t *domain.Task) bool {
		a := t.Links.ClientApproval
		return a != nil && a.Status == domain.ApprovalStatusPending && a.IsOverdue(page.Now)
	}), nil
}

// scanPage mirrors the Postgres scan queries: open tasks only, the alert
// rate limit applied, ordered by id and resumed after page.AfterID.
func (s *Store) scanPage(page domain.ScanPage, kind domain.AlertKind, keep func(*domain.Task) bool) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.Status == domain.TaskStatusCancelled || t.Status == domain.TaskStatusCompleted {
			continue
		}
		if t.ID <= page.AfterID || !page.AlertDue(t.Links.Alert(kind)) || !keep(t) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	for i, t := range out {
		out[i] = cloneTask(t)
	}
	return out
}

func (s *Store) ListAwaitingApproval(_ context.Context, clientID string) ([]*domain.Task, error) {
	if err := s.check("ListAwaitingApproval"); err != nil {
		return nil, err
	}
	return s.filterTasks(0, func(t *domain.Task) bool {
		col, ok := s.columns[t.ColumnID]
		return ok && col.StageKey == domain.StageApproval &&
			t.ClientID != nil && *t.ClientID == clientID
	}), nil
}

func (s *Store) filterTasks(limit int, keep func(*domain.Task) bool) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Task
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; keep(t) {
			out = append(out, cloneTask(t))
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// --- clients ---

func (s *Store) ResolveClientID(_ context.Context, ref domain.ClientRef) (string, error) {
	if err := s.check("ResolveClientID"); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref.Kind == domain.ClientRefDirect {
		if _, ok := s.clients[ref.ID]; ok {
			return ref.ID, nil
		}
		return "", fmt.Errorf("%w: %s", domain.ErrClientNotFound, ref.ID)
	}
	id, ok := s.refs[ref.Kind][ref.ID]
	if !ok {
		return "", fmt.Errorf("%s %s: %w", ref.Kind, ref.ID, domain.ErrNotFound)
	}
	return id, nil
}

func (s *Store) GetClient(_ context.Context, id string) (*domain.Client, error) {
	if err := s.check("GetClient"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, id)
	}
	out := *c
	return &out, nil
}

func (s *Store) GetClientByUser(ctx context.Context, userID string) (*domain.Client, error) {
	s.mu.RLock()
	id, ok := s.clientUsers[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no client for user %s", domain.ErrClientNotFound, userID)
	}
	return s.GetClient(ctx, id)
}

// --- audit ---

func (s *Store) RecordAudit(_ context.Context, e *domain.AuditEvent) error {
	if err := s.check("RecordAudit"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *e
	c.ID = uuid.NewString()
	c.CreatedAt = s.Now()
	s.audit = append(s.audit, c)
	e.ID, e.CreatedAt = c.ID, c.CreatedAt
	return nil
}

// AuditEvents returns every recorded audit event in order.
func (s *Store) AuditEvents() []domain.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditEvent(nil), s.audit...)
}

// --- notifications ---

// CreateInboxMessage stores a message-center notification.
func (s *Store) CreateInboxMessage(_ context.Context, m *domain.InboxMessage) error {
	if err := s.check("CreateInboxMessage"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = s.Now()
	s.inbox = append(s.inbox, c)
	m.ID, m.CreatedAt = c.ID, c.CreatedAt
	return nil
}

// ListStaffByArea returns staff members of an area, matched case-insensitively.
func (s *Store) ListStaffByArea(_ context.Context, area string) ([]domain.StaffMember, error) {
	if err := s.check("ListStaffByArea"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StaffMember
	for _, m := range s.staff {
		if strings.EqualFold(m.Area, area) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Inbox returns the messages delivered to userID.
func (s *Store) Inbox(userID string) []domain.InboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.InboxMessage
	for _, m := range s.inbox {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

// TaskCount returns how many tasks exist.
func (s *Store) TaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func cloneTransition(t *domain.WorkflowTransition) *domain.WorkflowTransition {
	c := *t
	c.Payload = t.Payload.Clone()
	return &c
}

func cloneBoard(b *domain.Board) *domain.Board {
	c := *b
	c.Columns = append([]domain.Column(nil), b.Columns...)
	return &c
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Links.Provenance != nil {
		p := *t.Links.Provenance
		c.Links.Provenance = &p
	}
	c.Links.ClientApproval = t.Links.ClientApproval.Clone()
	if t.Links.Alerts != nil {
		c.Links.Alerts = make(map[domain.AlertKind]domain.AlertState, len(t.Links.Alerts))
		for k, v := range t.Links.Alerts {
			c.Links.Alerts[k] = v
		}
	}
	return &c
}
