package store

import (
	"database/sql"
	"fmt"
	"time"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Created      time.Time
}

// CreateUser inserts a user and returns its id. Creating a user with an email
// that already exists returns the existing user's id unchanged.
func (s *Store) CreateUser(email, name, passwordHash string) (int64, error) {
	row := s.db.QueryRow("SELECT id FROM User WHERE email = ?", email)
	var id int64
	err := row.Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking user %q: %w", email, err)
	}

	res, err := s.db.Exec("INSERT INTO User (email, name, password_hash) VALUES (?, ?, ?)",
		email, name, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("inserting user %q: %w", email, err)
	}
	return res.LastInsertId()
}

func (s *Store) GetUser(id int64) (User, error) {
	row := s.db.QueryRow("SELECT id, email, name, password_hash, created FROM User WHERE id = ?", id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(email string) (User, error) {
	row := s.db.QueryRow("SELECT id, email, name, password_hash, created FROM User WHERE email = ?", email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var created sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("scanning user: %w", err)
	}
	u.Created = created.Time
	return u, nil
}

func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query("SELECT id, email, name FROM User ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
