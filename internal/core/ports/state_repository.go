package ports

import (
	"context"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// StateRepository defines durable persistence for per-user business state.
// Implementations return domain.ErrUserDataNotFound when no record exists yet;
// lazy seeding is the service's job.
type StateRepository interface {
	LoadUserData(ctx context.Context, userID string) (*domain.AppData, error)
	SaveUserData(ctx context.Context, userID string, data domain.AppData) error

	LoadAuditLog(ctx context.Context, userID string) ([]domain.AuditEntry, error)
	SaveAuditLog(ctx context.Context, userID string, entries []domain.AuditEntry) error
}

// SessionRepository persists chat-agent session metadata, a concern parallel
// to (and stored apart from) business data.
type SessionRepository interface {
	UpsertSession(ctx context.Context, s domain.ChatSession) error
	FindSession(ctx context.Context, id string) (*domain.ChatSession, error)
	DeleteSession(ctx context.Context, id string) (bool, error)
	ListSessions(ctx context.Context) ([]domain.ChatSession, error)
}
