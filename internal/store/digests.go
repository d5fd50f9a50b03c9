package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

// Digest is a monthly recommendation email subscription.
type Digest struct {
	UserID  int64
	Name    string
	Email   string
	Comfort recommend.ComfortLevel
	RunDay  int
	Sent    time.Time
}

// AddDigest registers a digest subscription for a user.
func (s *Store) AddDigest(d Digest) error {
	if d.RunDay < 1 || d.RunDay > 31 {
		return fmt.Errorf("run_day out of range: %d", d.RunDay)
	}
	if _, err := recommend.WeightsFor(d.Comfort); err != nil {
		return err
	}

	_, err := s.db.Exec(`
	INSERT INTO Digest (user, name, email, comfort, run_day) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user, name) DO UPDATE SET
	  email = excluded.email, comfort = excluded.comfort, run_day = excluded.run_day
	`, d.UserID, d.Name, d.Email, d.Comfort, d.RunDay)
	if err != nil {
		return fmt.Errorf("upserting digest %q: %w", d.Name, err)
	}
	return nil
}

// ListDigests returns all digest subscriptions, across users.
func (s *Store) ListDigests() ([]Digest, error) {
	rows, err := s.db.Query("SELECT user, name, email, comfort, run_day, sent FROM Digest ORDER BY user, name")
	if err != nil {
		return nil, fmt.Errorf("querying digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		var comfort string
		var sent sql.NullTime
		if err := rows.Scan(&d.UserID, &d.Name, &d.Email, &comfort, &d.RunDay, &sent); err != nil {
			return nil, err
		}
		d.Comfort = recommend.ComfortLevel(comfort)
		d.Sent = sent.Time
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// DeleteDigest removes a subscription. Deleting a digest that doesn't exist
// returns ErrNotFound.
func (s *Store) DeleteDigest(userID int64, name string) error {
	res, err := s.db.Exec("DELETE FROM Digest WHERE user = ? AND name = ?", userID, name)
	if err != nil {
		return fmt.Errorf("deleting digest %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("digest %q: %w", name, ErrNotFound)
	}
	return nil
}

// MarkDigestSent records when a digest was last emailed.
func (s *Store) MarkDigestSent(userID int64, name string, when time.Time) error {
	_, err := s.db.Exec("UPDATE Digest SET sent = ? WHERE user = ? AND name = ?", when, userID, name)
	if err != nil {
		return fmt.Errorf("marking digest %q sent: %w", name, err)
	}
	return nil
}
