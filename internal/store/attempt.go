package store

import (
	"database/sql"
	"time"

	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// Attempt represents one prompted press within a session.
type Attempt struct {
	ID             string
	SessionID      string
	TargetFinger   tracking.FingerIndex
	DetectedFinger tracking.FingerIndex
	Correct        bool
	LatencyMS      int64
	CreatedAt      time.Time
}

// AttemptRepository provides operations for recorded attempts.
type AttemptRepository struct {
	db *sql.DB
}

// Attempts returns the attempt repository for this store.
func (s *Store) Attempts() *AttemptRepository {
	return &AttemptRepository{db: s.db}
}

// Create inserts an attempt and updates the counters on its session in a
// single transaction.
func (r *AttemptRepository) Create(a *Attempt) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a.CreatedAt = time.Now()

	correct := 0
	if a.Correct {
		correct = 1
	}

	_, err = tx.Exec(
		`INSERT INTO attempts (id, session_id, target_finger, detected_finger, correct, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, int(a.TargetFinger), int(a.DetectedFinger), correct, a.LatencyMS, a.CreatedAt,
	)
	if err != nil {
		return err
	}

	// Keep the session counters in step with its attempts
	_, err = tx.Exec(
		`UPDATE sessions SET attempts = attempts + 1, correct = correct + ? WHERE id = ?`,
		correct, a.SessionID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetBySessionID retrieves all attempts for a given session in the order
// they were recorded.
func (r *AttemptRepository) GetBySessionID(sessionID string) ([]Attempt, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, target_finger, detected_finger, correct, latency_ms, created_at
		 FROM attempts
		 WHERE session_id = ?
		 ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var target, detected, correct int
		if err := rows.Scan(&a.ID, &a.SessionID, &target, &detected, &correct, &a.LatencyMS, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.TargetFinger = tracking.FingerIndex(target)
		a.DetectedFinger = tracking.FingerIndex(detected)
		a.Correct = correct != 0
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}
