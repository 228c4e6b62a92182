package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/database"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler"
	"github.com/vallemarketing/valle360-teste-sub010/internal/middleware"
	"github.com/vallemarketing/valle360-teste-sub010/internal/notify"
	"github.com/vallemarketing/valle360-teste-sub010/internal/repository"
	"github.com/vallemarketing/valle360-teste-sub010/internal/repository/memstore"
	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
	"github.com/vallemarketing/valle360-teste-sub010/internal/textgen"
)

// runtime is the wired service graph shared by every command.
type runtime struct {
	services handler.Services
	auth     *middleware.AuthMiddleware
	ping     func(ctx context.Context) error
	closers  []func()
}

// Close releases connections in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// engineConfig reads the engine tunables from the global flags.
func engineConfig(c *cli.Context) config.Engine {
	return config.Engine{
		RenotifyInterval:        c.Duration("renotify-interval"),
		DefaultApprovalSLA:      time.Duration(c.Int("approval-sla-hours")) * time.Hour,
		MinChangeRequestComment: c.Int("min-comment"),
		RiskTopN:                c.Int("risk-top-n"),
		ScanBatchSize:           c.Int("scan-batch-size"),
	}.WithDefaults()
}

func newRuntime(ctx context.Context, c *cli.Context, memory bool) (*runtime, error) {
	rt := &runtime{}

	tpl := config.DefaultBoardTemplate()
	if path := c.String("board-template"); path != "" {
		var err error
		if tpl, err = config.LoadBoardTemplate(path); err != nil {
			return nil, err
		}
	}
	columns, err := tpl.ColumnSpecs()
	if err != nil {
		return nil, fmt.Errorf("board template: %w", err)
	}

	cfg := engineConfig(c)

	var (
		stores  service.Stores
		inbox   notify.Inbox
		staff   notify.StaffDirectory
		clients middleware.ClientLookup
	)

	if memory {
		slog.Warn("using in-memory store, records are lost on exit")
		st := memstore.New()
		stores = service.Stores{Transitions: st, Boards: st, Tasks: st, Clients: st, Audit: st}
		inbox, staff, clients = st, st, st
	} else {
		databaseURL := c.String("database-url")
		if databaseURL == "" {
			return nil, errors.New("database-url is required")
		}

		db, err := database.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.closers = append(rt.closers, db.Close)

		if err := database.RunMigrations(ctx, db.Pool()); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repos := repository.New(db.Pool())
		stores = repos.Stores()
		inbox, staff, clients = repos.Notifications, repos.Notifications, repos.Clients
		rt.ping = db.Ping
	}

	var channels notify.ChannelPublisher
	if url := c.String("nats-url"); url != "" {
		conn, err := notify.Connect(url)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() {
			if err := conn.Drain(); err != nil {
				slog.Warn("failed to drain NATS connection", "error", err)
			}
		})
		channels = notify.NewNATSPublisher(conn, c.String("nats-subject-prefix"))
	} else {
		slog.Info("NATS not configured, email and WhatsApp deliveries are dropped")
	}

	var text service.TextGenerator
	if key := c.String("openai-api-key"); key != "" {
		text = textgen.New(key, c.String("openai-model"))
	}

	dispatcher := notify.NewDispatcher(inbox, staff, channels)

	rt.services = handler.Services{
		Workflow:  service.NewWorkflowService(stores, dispatcher, columns, cfg),
		Boards:    service.NewBoardService(stores, dispatcher, columns, cfg),
		Approvals: service.NewApprovalService(stores, dispatcher, cfg),
		Scanner:   service.NewEscalationScanner(stores, dispatcher, text, cfg),
		Insights:  service.NewInsightsService(stores, cfg),
	}
	rt.auth = middleware.NewAuthMiddleware(c.String("jwt-secret"), clients)
	return rt, nil
}
