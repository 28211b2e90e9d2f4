package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Challenge is a two-part coding prompt. Immutable once created.
type Challenge struct {
	ID          int64
	Description string
	PartAPrompt string
	PartBPrompt string
}

// Role identifies which half of a challenge an answer fulfills.
type Role string

const (
	RoleA Role = "a"
	RoleB Role = "b"
)

// Valid reports whether r is one of the two defined roles.
func (r Role) Valid() bool {
	return r == RoleA || r == RoleB
}

// Answer is one user's code submission for a challenge inside a conversation.
type Answer struct {
	ID             int64
	ChallengeID    int64
	ConversationID int64
	UserID         int64
	Role           Role
	Code           string
	SubmittedAt    time.Time
}

// AddChallenge stores a new two-part prompt.
func (s *Store) AddChallenge(description, partA, partB string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(partA) == "" || strings.TrimSpace(partB) == "" {
		return 0, fmt.Errorf("both challenge parts required: %w", ErrValidation)
	}

	res, err := s.db.Exec(
		"INSERT INTO challenges (description, part_a_prompt, part_b_prompt) VALUES (?, ?, ?)",
		description, partA, partB,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add challenge: %w", err)
	}
	return res.LastInsertId()
}

// PickRandomChallenge selects uniformly at random over all challenges.
// ErrNotFound when none exist.
func (s *Store) PickRandomChallenge() (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Challenge
	err := s.db.QueryRow(
		"SELECT id, description, part_a_prompt, part_b_prompt FROM challenges ORDER BY RANDOM() LIMIT 1",
	).Scan(&c.ID, &c.Description, &c.PartAPrompt, &c.PartBPrompt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no challenges loaded: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick challenge: %w", err)
	}
	return &c, nil
}

// SubmitAnswer stores one user's code for a role of a challenge within a
// conversation. Re-submission for the same (challenge, conversation, role)
// overwrites the prior answer; no history is kept.
func (s *Store) SubmitAnswer(challengeID, conversationID, userID int64, role Role, code string) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("submission cannot be empty: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := withRetry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO answers (challenge_id, conversation_id, user_id, role, code, submitted_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(challenge_id, conversation_id, role) DO UPDATE SET
			 user_id = excluded.user_id,
			 code = excluded.code,
			 submitted_at = excluded.submitted_at`,
			challengeID, conversationID, userID, string(role), code, time.Now().UTC(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to submit answer: %w", err)
	}
	return nil
}

// GetAnswerPair returns the role-A and role-B answers for the challenge within
// the conversation. ErrIncomplete until both roles have submissions from two
// distinct users.
func (s *Store) GetAnswerPair(challengeID, conversationID int64) (*Answer, *Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, challenge_id, conversation_id, user_id, role, code, submitted_at
		 FROM answers
		 WHERE challenge_id = ? AND conversation_id = ?`,
		challengeID, conversationID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch answers: %w", err)
	}
	defer rows.Close()

	var a, b *Answer
	for rows.Next() {
		var ans Answer
		var role string
		if err := rows.Scan(&ans.ID, &ans.ChallengeID, &ans.ConversationID, &ans.UserID, &role, &ans.Code, &ans.SubmittedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		ans.Role = Role(role)
		switch ans.Role {
		case RoleA:
			a = &ans
		case RoleB:
			b = &ans
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if a == nil || b == nil || a.UserID == b.UserID {
		return nil, nil, ErrIncomplete
	}
	return a, b, nil
}
