package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a profile row. The password hash stays inside this package.
type User struct {
	ID          int64
	Username    string
	Email       string
	NameFont    string
	Bio         string
	ProfileLink string
	ProfilePic  string
	Age         int
	Location    string
	CreatedAt   time.Time
}

// NewUserParams holds the fields required to create an account.
type NewUserParams struct {
	Username    string
	Email       string
	Password    string
	NameFont    string
	Bio         string
	ProfileLink string
	ProfilePic  string
	Age         int
	Location    string
}

const userColumns = "id, username, email, name_font, bio, profile_link, profile_pic, COALESCE(age, 0), location, created_at"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.NameFont, &u.Bio,
		&u.ProfileLink, &u.ProfilePic, &u.Age, &u.Location, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account with a bcrypt-hashed password.
// Username and email collisions return ErrDuplicate.
func (s *Store) CreateUser(p NewUserParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.Username) == "" || strings.TrimSpace(p.Email) == "" {
		return 0, fmt.Errorf("username and email required: %w", ErrValidation)
	}
	if p.Password == "" {
		return 0, fmt.Errorf("password required: %w", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	if p.NameFont == "" {
		p.NameFont = "standard"
	}

	var id int64
	err = withRetry(func() error {
		res, err := s.db.Exec(
			`INSERT INTO users (username, email, password_hash, name_font, bio, profile_link, profile_pic, age, location)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Username, p.Email, string(hash), p.NameFont, p.Bio, p.ProfileLink, p.ProfilePic, nullableAge(p.Age), p.Location,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if isDuplicate(err) {
		return 0, fmt.Errorf("username or email already taken: %w", ErrDuplicate)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func nullableAge(age int) any {
	if age <= 0 {
		return nil
	}
	return age
}

// Authenticate verifies a username/password pair and returns the profile.
// Unknown users and bad passwords both return ErrNotFound.
func (s *Store) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	var id int64
	err := s.db.QueryRow("SELECT id, password_hash FROM users WHERE username = ?", username).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}

	return s.getProfileLocked(id)
}

// GetProfile fetches a user by id.
func (s *Store) GetProfile(id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProfileLocked(id)
}

func (s *Store) getProfileLocked(id int64) (*User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return u, nil
}

// ProfileField enumerates the columns UpdateProfile may touch. Updates are
// parameterized against this fixed set; identifiers are never built from input.
type ProfileField int

const (
	FieldUsername ProfileField = iota
	FieldEmail
	FieldNameFont
	FieldBio
	FieldProfileLink
	FieldProfilePic
	FieldAge
	FieldLocation
)

var profileColumns = map[ProfileField]string{
	FieldUsername:    "username",
	FieldEmail:       "email",
	FieldNameFont:    "name_font",
	FieldBio:         "bio",
	FieldProfileLink: "profile_link",
	FieldProfilePic:  "profile_pic",
	FieldAge:         "age",
	FieldLocation:    "location",
}

// ProfileUpdate is a partial update: only set fields change.
type ProfileUpdate struct {
	fields map[ProfileField]any
}

// Set records a field change. Returns the update for chaining.
func (pu *ProfileUpdate) Set(f ProfileField, value any) *ProfileUpdate {
	if pu.fields == nil {
		pu.fields = make(map[ProfileField]any)
	}
	pu.fields[f] = value
	return pu
}

// UpdateProfile applies a partial update to the given user. Empty username or
// email is rejected; uniqueness collisions return ErrDuplicate.
func (s *Store) UpdateProfile(id int64, upd *ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if upd == nil || len(upd.fields) == 0 {
		return nil
	}

	var sets []string
	var args []any
	// Iterate the enum, not the map, for a stable statement shape.
	for f := FieldUsername; f <= FieldLocation; f++ {
		value, ok := upd.fields[f]
		if !ok {
			continue
		}
		if f == FieldUsername || f == FieldEmail {
			str, _ := value.(string)
			if strings.TrimSpace(str) == "" {
				return fmt.Errorf("%s cannot be empty: %w", profileColumns[f], ErrValidation)
			}
		}
		sets = append(sets, profileColumns[f]+" = ?")
		args = append(args, value)
	}
	args = append(args, id)

	err := withRetry(func() error {
		res, err := s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	})
	if isDuplicate(err) {
		return fmt.Errorf("username or email already taken: %w", ErrDuplicate)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return err
}

// NextProfile selects a uniformly random user excluding the caller and any id
// in seen. Returns ErrExhausted when no candidates remain so callers never
// loop forever.
func (s *Store) NextProfile(excluding int64, seen []int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + userColumns + " FROM users WHERE id != ?"
	args := []any{excluding}
	if len(seen) > 0 {
		query += " AND id NOT IN (?" + strings.Repeat(", ?", len(seen)-1) + ")"
		for _, id := range seen {
			args = append(args, id)
		}
	}
	query += " ORDER BY RANDOM() LIMIT 1"

	row := s.db.QueryRow(query, args...)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExhausted
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick next profile: %w", err)
	}
	return u, nil
}

// ListUsers returns up to limit users, newest first.
func (s *Store) ListUsers(limit int) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query("SELECT "+userColumns+" FROM users ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
