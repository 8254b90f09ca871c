package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownIdentity    = errors.New("invalid username or email combination")
)

// HashPassword returns the hex sha256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *Store) RegisterUser(username, email, password string) (*User, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, email, HashPassword(password), now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			if strings.Contains(err.Error(), "username") {
				return nil, fmt.Errorf("username already exists")
			}
			if strings.Contains(err.Error(), "email") {
				return nil, fmt.Errorf("email already exists")
			}
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUser(id)
}

// AuthenticateUser checks username+password and returns the user on success.
func (s *Store) AuthenticateUser(username, password string) (*User, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM users WHERE username = ? AND password_hash = ?`,
		username, HashPassword(password),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate user: %w", err)
	}
	return s.getUser(id)
}

// VerifyUserIdentity confirms a username/email pair exists.
func (s *Store) VerifyUserIdentity(username, email string) error {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM users WHERE username = ? AND email = ?`, username, email,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrUnknownIdentity
	}
	if err != nil {
		return fmt.Errorf("verify identity: %w", err)
	}
	return nil
}

// ResetPassword verifies the username/email pair, then replaces the password.
func (s *Store) ResetPassword(username, email, newPassword string) error {
	if err := s.VerifyUserIdentity(username, email); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ? WHERE username = ? AND email = ?`,
		HashPassword(newPassword), username, email,
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (s *Store) getUser(id int64) (*User, error) {
	u := &User{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}
