package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
	"github.com/suitewaste/deskshell/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubStateRepo struct {
	data     map[string]domain.AppData
	audit    map[string][]domain.AuditEntry
	saveErr  error
	auditErr error
}

func newStubStateRepo() *stubStateRepo {
	return &stubStateRepo{
		data:  make(map[string]domain.AppData),
		audit: make(map[string][]domain.AuditEntry),
	}
}

func (r *stubStateRepo) LoadUserData(_ context.Context, userID string) (*domain.AppData, error) {
	d, ok := r.data[userID]
	if !ok {
		return nil, domain.ErrUserDataNotFound
	}
	return &d, nil
}

func (r *stubStateRepo) SaveUserData(_ context.Context, userID string, data domain.AppData) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.data[userID] = data
	return nil
}

func (r *stubStateRepo) LoadAuditLog(_ context.Context, userID string) ([]domain.AuditEntry, error) {
	return r.audit[userID], nil
}

func (r *stubStateRepo) SaveAuditLog(_ context.Context, userID string, entries []domain.AuditEntry) error {
	if r.auditErr != nil {
		return r.auditErr
	}
	r.audit[userID] = entries
	return nil
}

type stubSessionRepo struct {
	sessions map[string]domain.ChatSession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (r *stubSessionRepo) UpsertSession(_ context.Context, s domain.ChatSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) FindSession(_ context.Context, id string) (*domain.ChatSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *stubSessionRepo) DeleteSession(_ context.Context, id string) (bool, error) {
	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *stubSessionRepo) ListSessions(_ context.Context) ([]domain.ChatSession, error) {
	out := make([]domain.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func newStateSvc(repo *stubStateRepo) *StateService {
	return NewStateService(repo, newStubSessionRepo(), zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestGetState_SeedsDefaultsOnFirstAccess(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)

	state, err := svc.GetState(context.Background(), "op1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Routes) == 0 || len(state.Checklist) == 0 {
		t.Error("expected seeded default data")
	}
	if _, ok := repo.data["op1"]; !ok {
		t.Error("expected seed persisted")
	}
}

func TestGetState_SeedIsolatedPerUser(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	if _, err := svc.GetState(ctx, "op1"); err != nil {
		t.Fatalf("seed op1: %v", err)
	}
	if _, err := svc.GetState(ctx, "mgr1"); err != nil {
		t.Fatalf("seed mgr1: %v", err)
	}

	if _, err := svc.UpdateChecklistItem(ctx, "op1", "c3", true); err != nil {
		t.Fatalf("update: %v", err)
	}

	other, _ := svc.GetState(ctx, "mgr1")
	for _, item := range other.Checklist {
		if item.ID == "c3" && item.Checked {
			t.Error("expected one user's mutation not to leak into another's record")
		}
	}
}

func TestSetState_MergesAndAppendsOneAuditEntry(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	routes := []domain.Route{{ID: "R999", Name: "Test Route"}}
	merged, err := svc.SetState(ctx, "op1", ports.StatePatch{Routes: &routes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged.Routes) != 1 || merged.Routes[0].ID != "R999" {
		t.Errorf("expected routes replaced, got %+v", merged.Routes)
	}
	if len(merged.Checklist) == 0 {
		t.Error("expected untouched fields preserved by the merge")
	}

	entries := repo.audit["op1"]
	if len(entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != domain.AuditActionUpdateState || e.Entity != domain.AuditEntityUserAppData {
		t.Errorf("unexpected audit action/entity: %s/%s", e.Action, e.Entity)
	}
	if e.Before == "" || e.After == "" || e.Before == e.After {
		t.Error("expected distinct before/after snapshots")
	}
	if e.UserID != "op1" {
		t.Errorf("expected audit actor op1, got %s", e.UserID)
	}
}

func TestSetState_AuditNewestFirstAndCapped(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	// Pre-fill the log to the cap so one more write must evict the tail.
	pre := make([]domain.AuditEntry, domain.AuditLogCap)
	for i := range pre {
		pre[i] = domain.AuditEntry{ID: "old", UserID: "op1"}
	}
	pre[domain.AuditLogCap-1].ID = "oldest"
	repo.audit["op1"] = pre

	routes := []domain.Route{}
	if _, err := svc.SetState(ctx, "op1", ports.StatePatch{Routes: &routes}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := repo.audit["op1"]
	if len(entries) != domain.AuditLogCap {
		t.Fatalf("expected audit capped at %d, got %d", domain.AuditLogCap, len(entries))
	}
	if entries[0].ID == "old" || entries[0].ID == "oldest" {
		t.Error("expected the new entry prepended")
	}
	for _, e := range entries {
		if e.ID == "oldest" {
			t.Error("expected the oldest entry evicted")
		}
	}
}

func TestSetState_AuditFailureIsNonFatal(t *testing.T) {
	repo := newStubStateRepo()
	repo.auditErr = errors.New("mongo unavailable")
	svc := newStateSvc(repo)

	routes := []domain.Route{}
	if _, err := svc.SetState(context.Background(), "op1", ports.StatePatch{Routes: &routes}); err != nil {
		t.Fatalf("expected audit failure to be non-fatal, got %v", err)
	}
	if len(repo.data["op1"].Routes) != 0 {
		t.Error("expected data committed despite audit failure")
	}
}

func TestSetState_SaveFailurePropagates(t *testing.T) {
	repo := newStubStateRepo()
	repo.data["op1"] = domain.DefaultAppData()
	repo.saveErr = errors.New("mongo unavailable")
	svc := newStateSvc(repo)

	routes := []domain.Route{}
	if _, err := svc.SetState(context.Background(), "op1", ports.StatePatch{Routes: &routes}); err == nil {
		t.Fatal("expected save failure to surface")
	}
	if len(repo.audit["op1"]) != 0 {
		t.Error("expected no audit entry for a failed commit")
	}
}

func TestUpdateChecklistItem(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	item, err := svc.UpdateChecklistItem(ctx, "op1", "c3", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Checked {
		t.Error("expected item checked")
	}

	state, _ := svc.GetState(ctx, "op1")
	for _, it := range state.Checklist {
		if it.ID == "c3" && !it.Checked {
			t.Error("expected mutation persisted")
		}
	}
}

func TestUpdateChecklistItem_UnknownID(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)

	_, err := svc.UpdateChecklistItem(context.Background(), "op1", "c99", true)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if len(repo.audit["op1"]) != 0 {
		t.Error("expected no audit entry for a rejected update")
	}
}

func TestResolveChecklist_ResolvesExactlyTheUnchecked(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	// Seed data ships with two unchecked items.
	resolved, err := svc.ResolveChecklist(ctx, "op1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != 2 {
		t.Errorf("expected 2 resolved, got %d", resolved)
	}

	again, err := svc.ResolveChecklist(ctx, "op1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != 0 {
		t.Errorf("expected idempotent second audit, got %d", again)
	}
}

func TestAddTransaction_ServerAssignsFields(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, "op1", "City of Cape Town", "R 2,000.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID == "" || tx.ID[0] != 'T' {
		t.Errorf("expected server-assigned T-prefixed id, got %q", tx.ID)
	}
	if tx.Status != "Completed" {
		t.Errorf("expected status Completed, got %q", tx.Status)
	}

	state, _ := svc.GetState(ctx, "op1")
	if state.Transactions[0].ID != tx.ID {
		t.Error("expected new transaction prepended")
	}
}

func TestUpdateTrainingProgress_PartialPatch(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	started := true
	course, err := svc.UpdateTrainingProgress(ctx, "op1", 1, ports.TrainingPatch{Started: &started})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !course.Started {
		t.Error("expected started flag set")
	}
	if course.Completed {
		t.Error("expected untouched fields preserved")
	}

	_, err = svc.UpdateTrainingProgress(ctx, "op1", 99, ports.TrainingPatch{Started: &started})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for unknown course, got %v", err)
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	repo := newStubStateRepo()
	svc := newStateSvc(repo)
	ctx := context.Background()

	s, err := svc.AddSession(ctx, "", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.ID == "" || s.Title == "" {
		t.Errorf("expected generated id and title, got %+v", s)
	}

	if err := svc.UpdateSessionActivity(ctx, s.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("expected one session, got %v / %v", sessions, err)
	}

	existed, err := svc.RemoveSession(ctx, s.ID)
	if err != nil || !existed {
		t.Fatalf("expected removal to report existence, got %v / %v", existed, err)
	}
	if err := svc.UpdateSessionActivity(ctx, s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after removal, got %v", err)
	}
}
