// @title			Valle 360 Workflow API
// @version		1.0
// @description	Cross-area workflow engine: transitions become tasks on kanban boards with client approvals and escalations.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
	"github.com/vallemarketing/valle360-teste-sub010/internal/handler"
	"github.com/vallemarketing/valle360-teste-sub010/internal/logger"
	"github.com/vallemarketing/valle360-teste-sub010/internal/middleware"
	"github.com/vallemarketing/valle360-teste-sub010/internal/scheduler"
)

func main() {
	app := &cli.App{
		Name:  "valle360",
		Usage: "Cross-area workflow engine",
		Flags: globalFlags(),
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and the overdue scan scheduler",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "scan-schedule",
						Value:   config.DefaultScanSchedule,
						Usage:   "Cron spec for the overdue scan; empty disables it",
						EnvVars: []string{"SCAN_SCHEDULE"},
					},
					&cli.BoolFlag{
						Name:    "memory",
						Usage:   "Keep all records in memory instead of PostgreSQL",
						EnvVars: []string{"MEMORY_STORE"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "run-overdue-scan",
				Usage:  "Notify owners of overdue tasks and clients of overdue approvals once",
				Action: runOverdueScan,
			},
			{
				Name:  "execute-transition",
				Usage: "Materialize a pending workflow transition as a task",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Transition ID", Required: true},
					&cli.StringFlag{Name: "actor", Value: "cli", Usage: "User recorded as the executor"},
				},
				Action: runExecuteTransition,
			},
			{
				Name:  "board-insights",
				Usage: "Print workload metrics and the riskiest tasks of a board",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "board-id", Usage: "Board ID", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
				},
				Action: runBoardInsights,
			},
			{
				Name:  "issue-token",
				Usage: "Sign a bearer token for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "User ID (sub claim)", Required: true},
					&cli.StringFlag{Name: "role", Value: string(domain.RoleStaff), Usage: "admin, staff or client"},
					&cli.StringFlag{Name: "client-id", Usage: "Client the user represents"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "Token lifetime"},
				},
				Action: runIssueToken,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "json",
			Usage:   "Log format (json, text)",
			EnvVars: []string{"LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Aliases: []string{"d"},
			Value:   config.DefaultDatabaseURL,
			Usage:   "PostgreSQL database URL",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "HS256 secret shared with the identity provider",
			EnvVars: []string{"JWT_SECRET"},
		},
		&cli.StringFlag{
			Name:    "nats-url",
			Usage:   "NATS server for email and WhatsApp deliveries; empty disables channel delivery",
			EnvVars: []string{"NATS_URL"},
		},
		&cli.StringFlag{
			Name:    "nats-subject-prefix",
			Value:   "notifications",
			Usage:   "Subject prefix for channel deliveries",
			EnvVars: []string{"NATS_SUBJECT_PREFIX"},
		},
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "API key for reminder text generation; empty uses the fixed template",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Value:   config.DefaultOpenAIModel,
			Usage:   "Model for reminder text generation",
			EnvVars: []string{"OPENAI_MODEL"},
		},
		&cli.StringFlag{
			Name:    "board-template",
			Usage:   "YAML file with the default board columns",
			EnvVars: []string{"BOARD_TEMPLATE"},
		},
		&cli.DurationFlag{
			Name:    "renotify-interval",
			Value:   config.DefaultRenotifyInterval,
			Usage:   "Minimum gap between two alerts of the same kind on one task",
			EnvVars: []string{"RENOTIFY_INTERVAL"},
		},
		&cli.IntFlag{
			Name:    "approval-sla-hours",
			Value:   config.DefaultApprovalSLAHours,
			Usage:   "Approval deadline in hours for columns without sla_hours",
			EnvVars: []string{"DEFAULT_APPROVAL_SLA_HOURS"},
		},
		&cli.IntFlag{
			Name:    "min-comment",
			Value:   config.DefaultMinChangeRequestComment,
			Usage:   "Minimum length of a request-changes comment",
			EnvVars: []string{"MIN_CHANGE_REQUEST_COMMENT"},
		},
		&cli.IntFlag{
			Name:    "scan-batch-size",
			Value:   config.DefaultScanBatchSize,
			Usage:   "Candidates read per page by the overdue scan",
			EnvVars: []string{"SCAN_BATCH_SIZE"},
		},
		&cli.IntFlag{
			Name:    "risk-top-n",
			Value:   config.DefaultRiskTopN,
			Usage:   "How many tasks board insights rank by risk",
			EnvVars: []string{"RISK_TOP_N"},
		},
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	if c.String("jwt-secret") == "" {
		return errors.New("jwt-secret is required")
	}

	rt, err := newRuntime(ctx, c, c.Bool("memory"))
	if err != nil {
		return err
	}
	defer rt.Close()

	h := handler.New(rt.services, rt.auth, rt.ping)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var sched *scheduler.Scheduler
	if spec := c.String("scan-schedule"); spec != "" {
		sched, err = scheduler.New(ctx, spec, rt.services.Scanner)
		if err != nil {
			return err
		}
		sched.Start()
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runOverdueScan(c *cli.Context) error {
	rt, err := newRuntime(c.Context, c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.services.Scanner.Run(c.Context)
	slog.Info("overdue scan finished",
		"overdue_tasks_notified", result.OverdueTasksNotified,
		"overdue_approvals_notified", result.OverdueApprovalsNotified,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"warnings", result.Warnings,
	)
	return err
}

func runExecuteTransition(c *cli.Context) error {
	rt, err := newRuntime(c.Context, c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.services.Workflow.Execute(c.Context, c.String("id"), c.String("actor"))
	if err != nil {
		return fmt.Errorf("execute transition %s: %w", c.String("id"), err)
	}
	return printJSON(result)
}

func runBoardInsights(c *cli.Context) error {
	rt, err := newRuntime(c.Context, c, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	insights, err := rt.services.Insights.BoardInsights(c.Context, c.String("board-id"))
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(insights)
	}

	m := insights.Metrics
	fmt.Printf("%s: %d tasks, %d done, %d overdue, %d at risk\n", insights.BoardName, m.Total, m.Done, m.Overdue, m.AtRisk)

	if len(m.Bottlenecks) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Column", "Tasks", "WIP limit"})
		for _, b := range m.Bottlenecks {
			tw.AppendRow(table.Row{b.ColumnName, b.Count, b.WIPLimit})
		}
		tw.Render()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Score", "Task", "Column", "Reasons"})
	for _, t := range insights.Risk.Top {
		tw.AppendRow(table.Row{strconv.Itoa(t.Score), t.Title, t.ColumnName, fmt.Sprint(t.Reasons)})
	}
	tw.Render()
	return nil
}

func runIssueToken(c *cli.Context) error {
	secret := c.String("jwt-secret")
	if secret == "" {
		return errors.New("jwt-secret is required")
	}

	p := domain.Principal{UserID: c.String("user"), Role: domain.Role(c.String("role"))}
	switch p.Role {
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleClient:
	default:
		return fmt.Errorf("unknown role %q", p.Role)
	}
	if id := c.String("client-id"); id != "" {
		p.ClientID = &id
	}

	token, err := middleware.IssueToken(secret, p, c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Println(token)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
