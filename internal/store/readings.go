package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

// Reading is one row of a user's history joined with its book.
type Reading struct {
	Book       recommend.Book
	Rating     float64
	HasRating  bool
	Status     recommend.ReadingStatus
	StartDate  time.Time
	FinishDate time.Time
	Review     string
}

func validStatus(status recommend.ReadingStatus) bool {
	switch status {
	case recommend.StatusWantToRead, recommend.StatusReading,
		recommend.StatusCompleted, recommend.StatusAbandoned:
		return true
	}
	return false
}

// SetReading upserts a user's reading of a book. A nil rating leaves the book
// unrated; a rating outside [1, 5] is rejected. Moving to reading stamps the
// start date, moving to completed or abandoned stamps the finish date.
func (s *Store) SetReading(userID, bookID int64, status recommend.ReadingStatus, rating *float64, review string) error {
	if !validStatus(status) {
		return fmt.Errorf("invalid reading status %q", status)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("rating %v out of range [1, 5]", *rating)
	}
	if _, err := s.GetBook(bookID); err != nil {
		return err
	}

	var ratingVal sql.NullFloat64
	if rating != nil {
		ratingVal = sql.NullFloat64{Float64: *rating, Valid: true}
	}

	now := time.Now()
	var start, finish sql.NullTime
	if status != recommend.StatusWantToRead {
		start = sql.NullTime{Time: now, Valid: true}
	}
	if status == recommend.StatusCompleted || status == recommend.StatusAbandoned {
		finish = sql.NullTime{Time: now, Valid: true}
	}

	_, err := s.db.Exec(`
	INSERT INTO Reading (user, book, rating, status, start_date, finish_date, review)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user, book) DO UPDATE SET
	  rating = COALESCE(excluded.rating, Reading.rating),
	  status = excluded.status,
	  start_date = COALESCE(Reading.start_date, excluded.start_date),
	  finish_date = COALESCE(excluded.finish_date, Reading.finish_date),
	  review = CASE WHEN excluded.review != '' THEN excluded.review ELSE Reading.review END
	`, userID, bookID, ratingVal, status, start, finish, review)
	if err != nil {
		return fmt.Errorf("upserting reading: %w", err)
	}
	return nil
}

// GetHistory returns the user's full reading history as engine input.
func (s *Store) GetHistory(userID int64) ([]recommend.HistoryEntry, error) {
	readings, err := s.GetReadings(userID)
	if err != nil {
		return nil, err
	}

	history := make([]recommend.HistoryEntry, len(readings))
	for i, r := range readings {
		history[i] = recommend.HistoryEntry{
			Book:      r.Book,
			Rating:    r.Rating,
			HasRating: r.HasRating,
			Status:    r.Status,
		}
	}
	return history, nil
}

// GetReadings returns the user's history rows with book details, newest
// first.
func (s *Store) GetReadings(userID int64) ([]Reading, error) {
	query := `
	SELECT b.id, b.title, COALESCE(b.average_rating, 0), COALESCE(b.page_count, 0),
	       r.rating, r.status, r.start_date, r.finish_date, COALESCE(r.review, '')
	FROM Reading r
	JOIN Book b ON b.id = r.book
	WHERE r.user = ?
	ORDER BY r.created DESC, b.id DESC
	`
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var r Reading
		var rating sql.NullFloat64
		var status string
		var start, finish sql.NullTime
		if err := rows.Scan(&r.Book.ID, &r.Book.Title, &r.Book.AverageRating, &r.Book.PageCount,
			&rating, &status, &start, &finish, &r.Review); err != nil {
			return nil, err
		}
		r.Rating = rating.Float64
		r.HasRating = rating.Valid
		r.Status = recommend.ReadingStatus(status)
		r.StartDate = start.Time
		r.FinishDate = finish.Time
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrs, err := s.bookAttributes("", nil)
	if err != nil {
		return nil, err
	}
	for i := range readings {
		if a, ok := attrs[readings[i].Book.ID]; ok {
			readings[i].Book.Genres = a.genres
			readings[i].Book.Authors = a.authors
		}
	}
	return readings, nil
}
