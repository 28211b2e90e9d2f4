package store

import "fmt"

// migrate creates the schema. Every statement is idempotent so migrate can run
// on every startup.
func (s *Store) migrate() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name_font TEXT DEFAULT 'standard',
		bio TEXT DEFAULT '',
		profile_link TEXT DEFAULT '',
		profile_pic TEXT DEFAULT '',
		age INTEGER,
		location TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
	`

	conversationsTable := `
	CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user1_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user2_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_message_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user1_id, user2_id),
		CHECK(user1_id != user2_id)
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_users ON conversations(user1_id, user2_id);
	`

	messagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message_text TEXT NOT NULL CHECK(length(message_text) > 0),
		sent_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		is_read INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, sent_at);
	`

	matchesTable := `
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		target_user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		match_type TEXT NOT NULL CHECK(match_type IN ('like','pass','super_like')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, target_user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_matches_user ON matches(user_id);
	`

	challengesTable := `
	CREATE TABLE IF NOT EXISTS challenges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		part_a_prompt TEXT NOT NULL,
		part_b_prompt TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	answersTable := `
	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		challenge_id INTEGER NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL CHECK(role IN ('a','b')),
		code TEXT NOT NULL,
		submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(challenge_id, conversation_id, role)
	);
	CREATE INDEX IF NOT EXISTS idx_answers_pair ON answers(challenge_id, conversation_id);
	`

	tables := []string{
		usersTable,
		conversationsTable,
		messagesTable,
		matchesTable,
		challengesTable,
		answersTable,
	}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return nil
}
