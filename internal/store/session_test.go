package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// newTestStore creates a new Store backed by a temporary database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "leaptracking-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestSessionRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	session := &Session{
		ID:   "session-1",
		Hand: tracking.Left,
	}

	// Create the session
	err := repo.Create(session)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	// Verify StartedAt is set
	if session.StartedAt.IsZero() {
		t.Error("StartedAt should be set after create")
	}

	// Retrieve the session by ID
	retrieved, err := repo.GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session by ID: %v", err)
	}

	// Verify all fields match
	if retrieved.ID != session.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, session.ID)
	}
	if retrieved.Hand != tracking.Left {
		t.Errorf("Hand mismatch: got %v, want %v", retrieved.Hand, tracking.Left)
	}
	if retrieved.EndedAt != nil {
		t.Errorf("EndedAt should be nil for a running session, got %v", retrieved.EndedAt)
	}
	if retrieved.Attempts != 0 || retrieved.Correct != 0 {
		t.Errorf("new session counters = %d/%d, want 0/0", retrieved.Correct, retrieved.Attempts)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	_, err := repo.GetByID("non-existent-id")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	// Create multiple sessions with distinct start times
	ids := []string{"session-1", "session-2", "session-3"}
	for _, id := range ids {
		if err := repo.Create(&Session{ID: id, Hand: tracking.Right}); err != nil {
			t.Fatalf("failed to create session %q: %v", id, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// List all sessions, newest first
	list, err := repo.List(0)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(list) != len(ids) {
		t.Fatalf("expected %d sessions, got %d", len(ids), len(list))
	}
	if list[0].ID != "session-3" {
		t.Errorf("newest session first: got %q, want %q", list[0].ID, "session-3")
	}

	// A limit returns only the most recent sessions
	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("failed to list sessions with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 sessions with limit, got %d", len(limited))
	}
	if limited[0].ID != "session-3" || limited[1].ID != "session-2" {
		t.Errorf("limited list = [%q, %q], want [session-3, session-2]", limited[0].ID, limited[1].ID)
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	session := &Session{ID: "session-1", Hand: tracking.Left}
	if err := repo.Create(session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	// Finish the session
	if err := repo.Finish("session-1"); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	retrieved, err := repo.GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session after finish: %v", err)
	}
	if retrieved.EndedAt == nil {
		t.Fatal("EndedAt should be set after finish")
	}
	if retrieved.EndedAt.Before(retrieved.StartedAt) {
		t.Error("EndedAt should not be before StartedAt")
	}
}

func TestSessionRepository_Finish_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	err := repo.Finish("non-existent-id")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound for non-existent session, got: %v", err)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&Session{ID: "session-1", Hand: tracking.Left}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	// Delete the session
	if err := repo.Delete("session-1"); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}

	// Verify it's gone
	_, err := repo.GetByID("session-1")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting again should report not found
	err = repo.Delete("session-1")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound for deleted session, got: %v", err)
	}
}

func TestSessionRepository_RejectsInvalidHand(t *testing.T) {
	s := newTestStore(t)

	// The schema only accepts the two wire-format hand names
	_, err := s.DB().Exec(
		`INSERT INTO sessions (id, hand, started_at) VALUES (?, ?, ?)`,
		"session-bad", "tentacle", time.Now(),
	)
	if err == nil {
		t.Error("inserting an invalid hand should fail the CHECK constraint")
	}
}

func TestSession_Accuracy(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		correct  int
		want     float64
	}{
		{"empty session", 0, 0, 0},
		{"all correct", 10, 10, 1.0},
		{"three quarters", 8, 6, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Attempts: tt.attempts, Correct: tt.correct}
			if got := s.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %f, want %f", got, tt.want)
			}
		})
	}
}
