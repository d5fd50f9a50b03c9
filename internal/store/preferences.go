package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

// SetPreferences replaces the user's stated favorite genres and authors.
func (s *Store) SetPreferences(userID int64, prefs recommend.Preferences) error {
	genres, err := json.Marshal(emptyIfNil(prefs.Genres))
	if err != nil {
		return fmt.Errorf("encoding genres: %w", err)
	}
	authors, err := json.Marshal(emptyIfNil(prefs.Authors))
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = s.db.Exec(`
	INSERT INTO Preference (user, genres, authors) VALUES (?, ?, ?)
	ON CONFLICT (user) DO UPDATE SET genres = excluded.genres, authors = excluded.authors
	`, userID, string(genres), string(authors))
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

// GetPreferences returns the user's stated preferences. A user with no stored
// preferences gets the zero value, not an error.
func (s *Store) GetPreferences(userID int64) (recommend.Preferences, error) {
	row := s.db.QueryRow("SELECT genres, authors FROM Preference WHERE user = ?", userID)
	var genresJSON, authorsJSON string
	err := row.Scan(&genresJSON, &authorsJSON)
	if err == sql.ErrNoRows {
		return recommend.Preferences{}, nil
	}
	if err != nil {
		return recommend.Preferences{}, fmt.Errorf("getting preferences: %w", err)
	}

	var prefs recommend.Preferences
	if err := json.Unmarshal([]byte(genresJSON), &prefs.Genres); err != nil {
		return recommend.Preferences{}, fmt.Errorf("decoding genres: %w", err)
	}
	if err := json.Unmarshal([]byte(authorsJSON), &prefs.Authors); err != nil {
		return recommend.Preferences{}, fmt.Errorf("decoding authors: %w", err)
	}
	return prefs, nil
}

func emptyIfNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
