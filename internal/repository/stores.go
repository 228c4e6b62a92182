package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vallemarketing/valle360-teste-sub010/internal/service"
)

// Repositories holds every Postgres repository built on one pool.
type Repositories struct {
	Transitions   *TransitionRepository
	Boards        *BoardRepository
	Tasks         *TaskRepository
	Clients       *ClientRepository
	Notifications *NotificationRepository
	Audit         *AuditRepository
}

// New creates all repositories.
func New(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Transitions:   NewTransitionRepository(pool),
		Boards:        NewBoardRepository(pool),
		Tasks:         NewTaskRepository(pool),
		Clients:       NewClientRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Audit:         NewAuditRepository(pool),
	}
}

// Stores exposes the repositories as the service layer's store ports.
func (r *Repositories) Stores() service.Stores {
	return service.Stores{
		Transitions: r.Transitions,
		Boards:      r.Boards,
		Tasks:       r.Tasks,
		Clients:     r.Clients,
		Audit:       r.Audit,
	}
}
