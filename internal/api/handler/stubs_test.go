package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

// stubStateService lets each test wire just the methods it exercises.
type stubStateService struct {
	getStateFn         func(ctx context.Context, userID string) (domain.AppData, error)
	setStateFn         func(ctx context.Context, userID string, patch ports.StatePatch) (domain.AppData, error)
	updateChecklistFn  func(ctx context.Context, userID, itemID string, checked bool) (domain.ChecklistItem, error)
	resolveChecklistFn func(ctx context.Context, userID string) (int, error)
	addTransactionFn   func(ctx context.Context, userID, recipient, amount string) (domain.Transaction, error)
	addListingFn       func(ctx context.Context, userID string, input ports.ListingInput) (domain.Listing, error)
	updateTrainingFn   func(ctx context.Context, userID string, courseID int, patch ports.TrainingPatch) (domain.TrainingCourse, error)
	auditLogFn         func(ctx context.Context, userID string) ([]domain.AuditEntry, error)
	addSessionFn       func(ctx context.Context, sessionID, title string) (domain.ChatSession, error)
	removeSessionFn    func(ctx context.Context, sessionID string) (bool, error)
	touchSessionFn     func(ctx context.Context, sessionID string) error
	listSessionsFn     func(ctx context.Context) ([]domain.ChatSession, error)
}

func (s *stubStateService) GetState(ctx context.Context, userID string) (domain.AppData, error) {
	return s.getStateFn(ctx, userID)
}

func (s *stubStateService) SetState(ctx context.Context, userID string, patch ports.StatePatch) (domain.AppData, error) {
	return s.setStateFn(ctx, userID, patch)
}

func (s *stubStateService) UpdateChecklistItem(ctx context.Context, userID, itemID string, checked bool) (domain.ChecklistItem, error) {
	return s.updateChecklistFn(ctx, userID, itemID, checked)
}

func (s *stubStateService) ResolveChecklist(ctx context.Context, userID string) (int, error) {
	return s.resolveChecklistFn(ctx, userID)
}

func (s *stubStateService) AddTransaction(ctx context.Context, userID, recipient, amount string) (domain.Transaction, error) {
	return s.addTransactionFn(ctx, userID, recipient, amount)
}

func (s *stubStateService) AddListing(ctx context.Context, userID string, input ports.ListingInput) (domain.Listing, error) {
	return s.addListingFn(ctx, userID, input)
}

func (s *stubStateService) UpdateTrainingProgress(ctx context.Context, userID string, courseID int, patch ports.TrainingPatch) (domain.TrainingCourse, error) {
	return s.updateTrainingFn(ctx, userID, courseID, patch)
}

func (s *stubStateService) AuditLog(ctx context.Context, userID string) ([]domain.AuditEntry, error) {
	return s.auditLogFn(ctx, userID)
}

func (s *stubStateService) AddSession(ctx context.Context, sessionID, title string) (domain.ChatSession, error) {
	return s.addSessionFn(ctx, sessionID, title)
}

func (s *stubStateService) RemoveSession(ctx context.Context, sessionID string) (bool, error) {
	return s.removeSessionFn(ctx, sessionID)
}

func (s *stubStateService) UpdateSessionActivity(ctx context.Context, sessionID string) error {
	return s.touchSessionFn(ctx, sessionID)
}

func (s *stubStateService) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	return s.listSessionsFn(ctx)
}

// newTestContext builds an echo context with the validator registered and,
// when userID is non-empty, the claim the Auth middleware would have set.
func newTestContext(req *http.Request, rec *httptest.ResponseRecorder, userID string) (echo.Context, *echo.Echo) {
	e := echo.New()
	e.Validator = NewValidator()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, e
}
