package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

// Typed accessors for each business app, one cache key per logical resource.

const (
	keyRoutes       = "routes"
	keyChecklist    = "checklist"
	keyTransactions = "transactions"
	keyListings     = "listings"
	keyTraining     = "trainingProgress"
	keyLeaderboard  = "leaderboard"
)

func (c *Client) OperationsRoutes(ctx context.Context) ([]domain.Route, error) {
	return Get[[]domain.Route](ctx, c, keyRoutes, "/api/v1/operations/routes")
}

func (c *Client) ComplianceChecklist(ctx context.Context) ([]domain.ChecklistItem, error) {
	return Get[[]domain.ChecklistItem](ctx, c, keyChecklist, "/api/v1/compliance/checklist")
}

func (c *Client) UpdateChecklistItem(ctx context.Context, id string, checked bool) (domain.ChecklistItem, error) {
	body := map[string]any{"id": id, "checked": checked}
	return Mutate[domain.ChecklistItem](ctx, c, keyChecklist, http.MethodPut, "/api/v1/compliance/checklist", body)
}

// RunComplianceAudit checks every open item and returns how many were
// resolved.
func (c *Client) RunComplianceAudit(ctx context.Context) (int, error) {
	out, err := Mutate[struct {
		Resolved int `json:"resolved"`
	}](ctx, c, keyChecklist, http.MethodPost, "/api/v1/compliance/audit", nil)
	return out.Resolved, err
}

func (c *Client) PaymentsTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return Get[[]domain.Transaction](ctx, c, keyTransactions, "/api/v1/payments/transactions")
}

func (c *Client) CreatePayment(ctx context.Context, recipient, amount string) (domain.Transaction, error) {
	body := map[string]string{"recipient": recipient, "amount": amount}
	return Mutate[domain.Transaction](ctx, c, keyTransactions, http.MethodPost, "/api/v1/payments/transactions", body)
}

func (c *Client) MarketplaceListings(ctx context.Context) ([]domain.Listing, error) {
	return Get[[]domain.Listing](ctx, c, keyListings, "/api/v1/marketplace/listings")
}

func (c *Client) ClassifyImage(ctx context.Context, image string) (ports.ClassificationResult, error) {
	return Mutate[ports.ClassificationResult](ctx, c, "", http.MethodPost, "/api/v1/marketplace/classify", map[string]string{"image": image})
}

func (c *Client) TrainingProgress(ctx context.Context) ([]domain.TrainingCourse, error) {
	return Get[[]domain.TrainingCourse](ctx, c, keyTraining, "/api/v1/training/progress")
}

func (c *Client) UpdateTrainingProgress(ctx context.Context, courseID int, patch ports.TrainingPatch) (domain.TrainingCourse, error) {
	body := map[string]any{}
	if patch.Started != nil {
		body["started"] = *patch.Started
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}
	if patch.Score != nil {
		body["score"] = *patch.Score
	}
	path := fmt.Sprintf("/api/v1/training/progress/%d", courseID)
	return Mutate[domain.TrainingCourse](ctx, c, keyTraining, http.MethodPut, path, body)
}

func (c *Client) TrainingLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return Get[[]domain.LeaderboardEntry](ctx, c, keyLeaderboard, "/api/v1/training/leaderboard")
}
