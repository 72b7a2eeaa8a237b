package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one practice session stored in the database.
type Session struct {
	ID        string
	Hand      tracking.Side
	StartedAt time.Time
	EndedAt   *time.Time
	Attempts  int
	Correct   int
}

// Accuracy returns the fraction of correct attempts, or 0 for an empty
// session.
func (s *Session) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// SessionRepository provides CRUD operations for practice sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(s *Session) error {
	s.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, hand, started_at) VALUES (?, ?, ?)`,
		s.ID, s.Hand.String(), s.StartedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}
	var hand string
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, hand, started_at, ended_at, attempts, correct
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &hand, &s.StartedAt, &endedAt, &s.Attempts, &s.Correct)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	side, ok := tracking.ParseSide(hand)
	if !ok {
		return nil, fmt.Errorf("session %s has invalid hand %q", s.ID, hand)
	}
	s.Hand = side
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return s, nil
}

// List retrieves sessions from the database, newest first. A limit of zero
// or less returns all sessions.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT id, hand, started_at, ended_at, attempts, correct
		 FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		var hand string
		var endedAt sql.NullTime

		err := rows.Scan(&s.ID, &hand, &s.StartedAt, &endedAt, &s.Attempts, &s.Correct)
		if err != nil {
			return nil, err
		}

		side, ok := tracking.ParseSide(hand)
		if !ok {
			return nil, fmt.Errorf("session %s has invalid hand %q", s.ID, hand)
		}
		s.Hand = side
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Finish marks a session as ended.
func (r *SessionRepository) Finish(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a session and, through the foreign key, its attempts.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
