package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/api/metrics"
	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

// StateService is the authoritative per-user store. Every call against one
// user's record executes one at a time in the order received, giving
// read-modify-write mutators atomicity without the repository needing
// transactions.
type StateService struct {
	repo        ports.StateRepository
	sessionRepo ports.SessionRepository
	log         zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStateService(repo ports.StateRepository, sessionRepo ports.SessionRepository, log zerolog.Logger) *StateService {
	return &StateService{
		repo:        repo,
		sessionRepo: sessionRepo,
		log:         log,
		locks:       make(map[string]*sync.Mutex),
	}
}

// userLock returns the serialization lock for one user id, creating it on
// first use. Cross-user operations stay fully independent.
func (s *StateService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// GetState returns the user's current blob, seeding default data on first
// access. The seed is generated fresh per user: no shared template exists to
// alias between records.
func (s *StateService) GetState(ctx context.Context, userID string) (domain.AppData, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.getStateLocked(ctx, userID)
}

func (s *StateService) getStateLocked(ctx context.Context, userID string) (domain.AppData, error) {
	data, err := s.repo.LoadUserData(ctx, userID)
	if err == nil {
		return *data, nil
	}
	if !errors.Is(err, domain.ErrUserDataNotFound) {
		return domain.AppData{}, fmt.Errorf("load state: %w", err)
	}

	seed := domain.DefaultAppData()
	if err := s.repo.SaveUserData(ctx, userID, seed); err != nil {
		return domain.AppData{}, fmt.Errorf("seed state: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("seeded default user state")
	return seed, nil
}

// SetState shallow-merges patch into the user's blob, persists the merged
// result, and appends exactly one audit entry capturing before/after JSON
// snapshots. Data commits first; the audit entry is built from the merged
// in-memory result and its persistence failure is non-fatal.
func (s *StateService) SetState(ctx context.Context, userID string, patch ports.StatePatch) (domain.AppData, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.setStateLocked(ctx, userID, patch)
}

func (s *StateService) setStateLocked(ctx context.Context, userID string, patch ports.StatePatch) (domain.AppData, error) {
	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return domain.AppData{}, err
	}

	before, err := json.Marshal(current)
	if err != nil {
		return domain.AppData{}, fmt.Errorf("snapshot state: %w", err)
	}

	merged := applyPatch(current, patch)
	if err := s.repo.SaveUserData(ctx, userID, merged); err != nil {
		return domain.AppData{}, fmt.Errorf("save state: %w", err)
	}

	after, err := json.Marshal(merged)
	if err != nil {
		return domain.AppData{}, fmt.Errorf("snapshot state: %w", err)
	}

	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    domain.AuditActionUpdateState,
		Entity:    domain.AuditEntityUserAppData,
		Before:    string(before),
		After:     string(after),
	}
	if err := s.appendAudit(ctx, userID, entry); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to append audit entry")
	}

	metrics.StateMutationsTotal.WithLabelValues(domain.AuditActionUpdateState).Inc()
	return merged, nil
}

func applyPatch(data domain.AppData, patch ports.StatePatch) domain.AppData {
	if patch.Routes != nil {
		data.Routes = *patch.Routes
	}
	if patch.Checklist != nil {
		data.Checklist = *patch.Checklist
	}
	if patch.Transactions != nil {
		data.Transactions = *patch.Transactions
	}
	if patch.Listings != nil {
		data.Listings = *patch.Listings
	}
	if patch.TrainingProgress != nil {
		data.TrainingProgress = *patch.TrainingProgress
	}
	if patch.Leaderboard != nil {
		data.Leaderboard = *patch.Leaderboard
	}
	return data
}

// appendAudit prepends the entry (newest first) and truncates past the cap.
func (s *StateService) appendAudit(ctx context.Context, userID string, entry domain.AuditEntry) error {
	entries, err := s.repo.LoadAuditLog(ctx, userID)
	if err != nil {
		return fmt.Errorf("load audit log: %w", err)
	}

	entries = append([]domain.AuditEntry{entry}, entries...)
	if len(entries) > domain.AuditLogCap {
		dropped := len(entries) - domain.AuditLogCap
		entries = entries[:domain.AuditLogCap]
		metrics.AuditEntriesDroppedTotal.Add(float64(dropped))
	}

	return s.repo.SaveAuditLog(ctx, userID, entries)
}

// UpdateChecklistItem flips one compliance item and returns it.
func (s *StateService) UpdateChecklistItem(ctx context.Context, userID, itemID string, checked bool) (domain.ChecklistItem, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return domain.ChecklistItem{}, err
	}

	updated := append([]domain.ChecklistItem(nil), current.Checklist...)
	var found *domain.ChecklistItem
	for i := range updated {
		if updated[i].ID == itemID {
			updated[i].Checked = checked
			found = &updated[i]
			break
		}
	}
	if found == nil {
		return domain.ChecklistItem{}, fmt.Errorf("checklist %q: %w", itemID, domain.ErrItemNotFound)
	}

	if _, err := s.setStateLocked(ctx, userID, ports.StatePatch{Checklist: &updated}); err != nil {
		return domain.ChecklistItem{}, err
	}
	return *found, nil
}

// ResolveChecklist marks every unchecked item checked and returns how many
// were resolved.
func (s *StateService) ResolveChecklist(ctx context.Context, userID string) (int, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return 0, err
	}

	updated := append([]domain.ChecklistItem(nil), current.Checklist...)
	resolved := 0
	for i := range updated {
		if !updated[i].Checked {
			updated[i].Checked = true
			resolved++
		}
	}
	if resolved == 0 {
		return 0, nil
	}

	if _, err := s.setStateLocked(ctx, userID, ports.StatePatch{Checklist: &updated}); err != nil {
		return 0, err
	}
	return resolved, nil
}

// AddTransaction prepends a completed payment with a server-assigned id and
// date.
func (s *StateService) AddTransaction(ctx context.Context, userID, recipient, amount string) (domain.Transaction, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return domain.Transaction{}, err
	}

	now := time.Now().UTC()
	tx := domain.Transaction{
		ID:        fmt.Sprintf("T%d", now.UnixMilli()),
		Date:      now.Format("2006-01-02"),
		Amount:    amount,
		Status:    "Completed",
		Recipient: recipient,
	}
	updated := append([]domain.Transaction{tx}, current.Transactions...)

	if _, err := s.setStateLocked(ctx, userID, ports.StatePatch{Transactions: &updated}); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// AddListing prepends a marketplace listing with a server-assigned id.
func (s *StateService) AddListing(ctx context.Context, userID string, input ports.ListingInput) (domain.Listing, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return domain.Listing{}, err
	}

	listing := domain.Listing{
		ID:       time.Now().UnixMilli(),
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
		Image:    input.Image,
	}
	updated := append([]domain.Listing{listing}, current.Listings...)

	if _, err := s.setStateLocked(ctx, userID, ports.StatePatch{Listings: &updated}); err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

// UpdateTrainingProgress merges patch into one course record and returns it.
func (s *StateService) UpdateTrainingProgress(ctx context.Context, userID string, courseID int, patch ports.TrainingPatch) (domain.TrainingCourse, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := s.getStateLocked(ctx, userID)
	if err != nil {
		return domain.TrainingCourse{}, err
	}

	updated := append([]domain.TrainingCourse(nil), current.TrainingProgress...)
	var found *domain.TrainingCourse
	for i := range updated {
		if updated[i].ID == courseID {
			if patch.Started != nil {
				updated[i].Started = *patch.Started
			}
			if patch.Completed != nil {
				updated[i].Completed = *patch.Completed
			}
			if patch.Score != nil {
				updated[i].Score = *patch.Score
			}
			found = &updated[i]
			break
		}
	}
	if found == nil {
		return domain.TrainingCourse{}, fmt.Errorf("course %d: %w", courseID, domain.ErrItemNotFound)
	}

	if _, err := s.setStateLocked(ctx, userID, ports.StatePatch{TrainingProgress: &updated}); err != nil {
		return domain.TrainingCourse{}, err
	}
	return *found, nil
}

// AuditLog returns the user's audit trail, newest first.
func (s *StateService) AuditLog(ctx context.Context, userID string) ([]domain.AuditEntry, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()
	return s.repo.LoadAuditLog(ctx, userID)
}

// AddSession registers chat session metadata.
func (s *StateService) AddSession(ctx context.Context, sessionID, title string) (domain.ChatSession, error) {
	now := time.Now().UTC()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if title == "" {
		title = "Chat " + now.Format("2006-01-02")
	}
	session := domain.ChatSession{ID: sessionID, Title: title, CreatedAt: now, LastActive: now}
	if err := s.sessionRepo.UpsertSession(ctx, session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("add session: %w", err)
	}
	return session, nil
}

// RemoveSession deletes session metadata, reporting whether it existed.
func (s *StateService) RemoveSession(ctx context.Context, sessionID string) (bool, error) {
	return s.sessionRepo.DeleteSession(ctx, sessionID)
}

// UpdateSessionActivity bumps the session's last-active timestamp.
func (s *StateService) UpdateSessionActivity(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindSession(ctx, sessionID)
	if err != nil {
		return err
	}
	session.LastActive = time.Now().UTC()
	return s.sessionRepo.UpsertSession(ctx, *session)
}

// ListSessions returns all chat sessions.
func (s *StateService) ListSessions(ctx context.Context) ([]domain.ChatSession, error) {
	return s.sessionRepo.ListSessions(ctx)
}
