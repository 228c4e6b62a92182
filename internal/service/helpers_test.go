package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/repository/memstore"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// clock is a settable test clock shared by services and the store.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentNotification struct {
	target  string // user:<id>, area:<name> or <channel>:<destination>
	payload domain.Notification
}

// recordingNotifier records deliveries and can fail selected targets.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	fail map[string]error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fail: map[string]error{}}
}

func (n *recordingNotifier) record(target string, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[target]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentNotification{target: target, payload: msg})
	return nil
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID string, msg domain.Notification) error {
	return n.record("user:"+userID, msg)
}

func (n *recordingNotifier) NotifyArea(_ context.Context, area string, msg domain.Notification) error {
	return n.record("area:"+area, msg)
}

func (n *recordingNotifier) NotifyByChannel(_ context.Context, dest string, ch domain.Channel, msg domain.Notification) error {
	return n.record(string(ch)+":"+dest, msg)
}

func (n *recordingNotifier) targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.target)
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// fixture wires every service on top of one memstore and one clock.
type fixture struct {
	store     *memstore.Store
	stores    service.Stores
	clock     *clock
	notifier  *recordingNotifier
	workflow  *service.WorkflowService
	boards    *service.BoardService
	approvals *service.ApprovalService
	scanner   *service.EscalationScanner
	insights  *service.InsightsService
}

func newFixture() *fixture {
	c := &clock{now: t0}
	store := memstore.New()
	store.Now = c.Now
	notifier := newRecordingNotifier()

	stores := service.Stores{
		Transitions: store,
		Boards:      store,
		Tasks:       store,
		Clients:     store,
		Audit:       store,
	}
	columns, err := config.DefaultBoardTemplate().ColumnSpecs()
	if err != nil {
		panic(err)
	}
	cfg := config.DefaultEngine()

	f := &fixture{
		store:     store,
		stores:    stores,
		clock:     c,
		notifier:  notifier,
		workflow:  service.NewWorkflowService(stores, notifier, columns, cfg),
		boards:    service.NewBoardService(stores, notifier, columns, cfg),
		approvals: service.NewApprovalService(stores, notifier, cfg),
		scanner:   service.NewEscalationScanner(stores, notifier, nil, cfg),
		insights:  service.NewInsightsService(stores, cfg),
	}
	f.workflow.Now = c.Now
	f.boards.Now = c.Now
	f.approvals.Now = c.Now
	f.scanner.Now = c.Now
	f.insights.Now = c.Now
	return f
}

// sentTo returns the notifications delivered to target, oldest first.
func (n *recordingNotifier) sentTo(target string) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, s := range n.sent {
		if s.target == target {
			out = append(out, s.payload)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// columnByStage returns the first column of board with the given stage.
func columnByStage(b *domain.Board, stage domain.StageKey) domain.Column {
	c, ok := b.FirstColumnMatchingStage(stage)
	if !ok {
		panic("no column with stage " + string(stage))
	}
	return c
}

var errStoreDown = errors.New("connection refused")
