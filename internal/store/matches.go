package store

import "fmt"

// MatchType is the kind of directed interaction between two users.
type MatchType string

const (
	MatchLike      MatchType = "like"
	MatchPass      MatchType = "pass"
	MatchSuperLike MatchType = "super_like"
)

// Valid reports whether t is a known interaction kind.
func (t MatchType) Valid() bool {
	switch t {
	case MatchLike, MatchPass, MatchSuperLike:
		return true
	}
	return false
}

// RecordInteraction stores a like/pass/super-like edge from userID to
// targetUserID. One edge per ordered pair; repeats overwrite.
func (s *Store) RecordInteraction(userID, targetUserID int64, kind MatchType) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown match type %q: %w", kind, ErrValidation)
	}
	if userID == targetUserID {
		return fmt.Errorf("cannot match with yourself: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := withRetry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO matches (user_id, target_user_id, match_type)
			 VALUES (?, ?, ?)
			 ON CONFLICT(user_id, target_user_id) DO UPDATE SET
			 match_type = excluded.match_type,
			 created_at = CURRENT_TIMESTAMP`,
			userID, targetUserID, string(kind),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

// IsMutualMatch reports whether both users have liked (or super-liked) each
// other. Messaging is not gated on this; it only informs the UI.
func (s *Store) IsMutualMatch(a, b int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM matches
		 WHERE ((user_id = ? AND target_user_id = ?) OR (user_id = ? AND target_user_id = ?))
		 AND match_type IN ('like', 'super_like')`,
		a, b, b, a,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check mutual match: %w", err)
	}
	return n == 2, nil
}

// MutualMatches returns the ids of users who share a mutual like with userID.
func (s *Store) MutualMatches(userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT m1.target_user_id FROM matches m1
		 JOIN matches m2 ON m2.user_id = m1.target_user_id AND m2.target_user_id = m1.user_id
		 WHERE m1.user_id = ?
		 AND m1.match_type IN ('like', 'super_like')
		 AND m2.match_type IN ('like', 'super_like')
		 ORDER BY m1.target_user_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mutual matches: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SeenIDs returns the users userID has already acted on (liked or passed),
// suitable as the seen set for NextProfile.
func (s *Store) SeenIDs(userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT target_user_id FROM matches WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seen users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan seen id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
