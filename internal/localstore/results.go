package localstore

import (
	"database/sql"
	"fmt"
	"time"
)

// Result row statuses. A pending row exists from the moment an evaluation
// verdict arrives; it becomes confirmed only after the session accepts it.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// ResultRecord is one persisted evaluation outcome.
type ResultRecord struct {
	ID        string
	SessionID string
	Kind      string
	Name      string
	Status    string
	Payload   string
	Synced    bool
	CreatedAt time.Time
}

// SavePending inserts a result row in the pending state, replacing any
// earlier row with the same id (a retried item overwrites its old verdict).
func (s *Store) SavePending(r ResultRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO results (id, session_id, kind, name, status, payload_json, synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload_json = excluded.payload_json,
			status = excluded.status,
			synced = 0,
			created_at = excluded.created_at`,
		r.ID, r.SessionID, r.Kind, r.Name, StatusPending, r.Payload,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Confirm moves a pending result to the confirmed state.
func (s *Store) Confirm(id string) error {
	res, err := s.db.Exec(`UPDATE results SET status = ? WHERE id = ? AND status = ?`,
		StatusConfirmed, id, StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Discard deletes a pending result that the candidate chose to retry. It is
// a no-op for confirmed rows.
func (s *Store) Discard(id string) error {
	_, err := s.db.Exec(`DELETE FROM results WHERE id = ? AND status = ?`, id, StatusPending)
	return err
}

// MarkSynced records that a confirmed result reached the remote store.
func (s *Store) MarkSynced(id string) error {
	res, err := s.db.Exec(`UPDATE results SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Unsynced returns confirmed results that never reached the remote store,
// oldest first.
func (s *Store) Unsynced() ([]ResultRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, kind, name, status, payload_json, synced, created_at
		FROM results WHERE status = ? AND synced = 0 ORDER BY created_at ASC`, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// SessionResults returns every result recorded for a session, oldest first.
func (s *Store) SessionResults(sessionID string) ([]ResultRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, kind, name, status, payload_json, synced, created_at
		FROM results WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// GetResult looks up a single result by id.
func (s *Store) GetResult(id string) (ResultRecord, error) {
	var r ResultRecord
	var synced int
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, session_id, kind, name, status, payload_json, synced, created_at
		FROM results WHERE id = ?`, id,
	).Scan(&r.ID, &r.SessionID, &r.Kind, &r.Name, &r.Status, &r.Payload, &synced, &createdAt)
	if err == sql.ErrNoRows {
		return ResultRecord{}, ErrNotFound
	}
	if err != nil {
		return ResultRecord{}, err
	}
	r.Synced = synced != 0
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return ResultRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return r, nil
}

func scanResults(rows *sql.Rows) ([]ResultRecord, error) {
	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		var synced int
		var createdAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Kind, &r.Name, &r.Status, &r.Payload, &synced, &createdAt); err != nil {
			return nil, err
		}
		r.Synced = synced != 0
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.CreatedAt = t
		results = append(results, r)
	}
	return results, rows.Err()
}

// --- Auth state ---

// SetAuthKey upserts one auth state value (token, user id, return url).
func (s *Store) SetAuthKey(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO auth_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetAuthKey returns one auth state value or ErrNotFound.
func (s *Store) GetAuthKey(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM auth_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}
