package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Conversation is the persistent thread for an unordered pair of users.
// User1ID is always the lower id.
type Conversation struct {
	ID            int64
	User1ID       int64
	User2ID       int64
	CreatedAt     time.Time
	LastMessageAt time.Time
}

// Message belongs to exactly one conversation.
type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	ReceiverID     int64
	Text           string
	SentAt         time.Time
	Read           bool
}

// canonicalPair orders two user ids low-first so every unordered pair maps to
// one row.
func canonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetOrCreateConversation returns the conversation id for the unordered pair
// (a, b), creating it on first use. Concurrent callers for the same pair
// converge on the same id: the insert tolerates the UNIQUE(user1_id, user2_id)
// conflict and the select after it always finds the surviving row.
func (s *Store) GetOrCreateConversation(a, b int64) (int64, error) {
	if a == b {
		return 0, fmt.Errorf("cannot open a conversation with yourself: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := canonicalPair(a, b)

	var id int64
	err := withRetry(func() error {
		return s.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(
				`INSERT INTO conversations (user1_id, user2_id) VALUES (?, ?)
				 ON CONFLICT(user1_id, user2_id) DO NOTHING`,
				lo, hi,
			)
			if err != nil {
				return err
			}
			return tx.QueryRow(
				"SELECT id FROM conversations WHERE user1_id = ? AND user2_id = ?",
				lo, hi,
			).Scan(&id)
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get or create conversation: %w", err)
	}
	return id, nil
}

// GetConversation fetches a conversation by id.
func (s *Store) GetConversation(id int64) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Conversation
	err := s.db.QueryRow(
		"SELECT id, user1_id, user2_id, created_at, last_message_at FROM conversations WHERE id = ?",
		id,
	).Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt, &c.LastMessageAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conversation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &c, nil
}

// AppendMessage inserts a message from senderID into the conversation and
// bumps last_message_at in the same transaction. Empty or whitespace-only text
// is rejected before any mutation. The receiver is the other participant.
func (s *Store) AppendMessage(conversationID, senderID int64, text string) (int64, time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return 0, time.Time{}, fmt.Errorf("message text cannot be empty: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	var sentAt time.Time
	err := withRetry(func() error {
		return s.inTx(func(tx *sql.Tx) error {
			var u1, u2 int64
			err := tx.QueryRow(
				"SELECT user1_id, user2_id FROM conversations WHERE id = ?",
				conversationID,
			).Scan(&u1, &u2)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("conversation %d: %w", conversationID, ErrNotFound)
			}
			if err != nil {
				return err
			}

			var receiverID int64
			switch senderID {
			case u1:
				receiverID = u2
			case u2:
				receiverID = u1
			default:
				return fmt.Errorf("user %d is not a participant: %w", senderID, ErrValidation)
			}

			sentAt = time.Now().UTC()
			res, err := tx.Exec(
				`INSERT INTO messages (conversation_id, sender_id, receiver_id, message_text, sent_at)
				 VALUES (?, ?, ?, ?, ?)`,
				conversationID, senderID, receiverID, text, sentAt,
			)
			if err != nil {
				return err
			}
			id, err = res.LastInsertId()
			if err != nil {
				return err
			}

			_, err = tx.Exec(
				"UPDATE conversations SET last_message_at = ? WHERE id = ? AND last_message_at < ?",
				sentAt, conversationID, sentAt,
			)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
			return 0, time.Time{}, err
		}
		return 0, time.Time{}, fmt.Errorf("failed to append message: %w", err)
	}
	return id, sentAt, nil
}

// ListMessages returns up to limit messages in the conversation, oldest first.
// Ordering is by sent_at with id as the tiebreaker.
func (s *Store) ListMessages(conversationID int64, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(
		`SELECT id, conversation_id, sender_id, receiver_id, message_text, sent_at, is_read
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY sent_at ASC, id ASC
		 LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Text, &m.SentAt, &m.Read); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flags every unread message addressed to readerID as read.
// Idempotent.
func (s *Store) MarkRead(conversationID, readerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := withRetry(func() error {
		_, err := s.db.Exec(
			"UPDATE messages SET is_read = 1 WHERE conversation_id = ? AND receiver_id = ? AND is_read = 0",
			conversationID, readerID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread messages addressed to readerID.
func (s *Store) UnreadCount(conversationID, readerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ? AND receiver_id = ? AND is_read = 0",
		conversationID, readerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}
