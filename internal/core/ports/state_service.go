package ports

import (
	"context"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// StatePatch is a partial update to a user's business-data blob. Nil fields
// are left untouched; non-nil fields replace the collection wholesale
// (shallow merge, one audit entry per apply).
type StatePatch struct {
	Routes           *[]domain.Route
	Checklist        *[]domain.ChecklistItem
	Transactions     *[]domain.Transaction
	Listings         *[]domain.Listing
	TrainingProgress *[]domain.TrainingCourse
	Leaderboard      *[]domain.LeaderboardEntry
}

// TrainingPatch is a partial update to one training course record.
type TrainingPatch struct {
	Started   *bool
	Completed *bool
	Score     *float64
}

// ListingInput carries the fields of a new marketplace listing; the service
// assigns the id.
type ListingInput struct {
	Name     string
	Price    string
	Category string
	Image    string
}

// ClassificationResult is the outcome of classifying a listing photo.
type ClassificationResult struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	EstimatedPrice string `json:"estimatedPrice"`
}

// StateService is the per-user authoritative store. All mutations are
// serialized per user and append exactly one audit entry.
type StateService interface {
	GetState(ctx context.Context, userID string) (domain.AppData, error)
	SetState(ctx context.Context, userID string, patch StatePatch) (domain.AppData, error)

	UpdateChecklistItem(ctx context.Context, userID, itemID string, checked bool) (domain.ChecklistItem, error)
	ResolveChecklist(ctx context.Context, userID string) (int, error)
	AddTransaction(ctx context.Context, userID, recipient, amount string) (domain.Transaction, error)
	AddListing(ctx context.Context, userID string, input ListingInput) (domain.Listing, error)
	UpdateTrainingProgress(ctx context.Context, userID string, courseID int, patch TrainingPatch) (domain.TrainingCourse, error)

	AuditLog(ctx context.Context, userID string) ([]domain.AuditEntry, error)

	AddSession(ctx context.Context, sessionID, title string) (domain.ChatSession, error)
	RemoveSession(ctx context.Context, sessionID string) (bool, error)
	UpdateSessionActivity(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]domain.ChatSession, error)
}
