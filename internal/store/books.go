package store

import (
	"database/sql"
	"fmt"

	"github.com/ademuri/bookshelf-tools/internal/recommend"
)

// BookImport is one catalog entry as read from a bulk source, before
// normalization into the Book, Author, and Genre tables.
type BookImport struct {
	Title           string
	ISBN            string
	PublicationYear int
	Description     string
	PageCount       int
	AverageRating   float64
	RatingsCount    int
	Language        string
	Publisher       string
	Authors         []string
	Genres          []string
}

// AddBooks inserts a batch of books transactionally. Books already present
// (matched by ISBN, or by title when the ISBN is empty) are skipped, so
// re-running an import is safe.
func (s *Store) AddBooks(books []BookImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, book := range books {
		bookID, inserted, err := createBook(tx, book)
		if err != nil {
			return err
		}
		if !inserted {
			continue
		}
		for _, author := range book.Authors {
			authorID, err := createAuthor(tx, author)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT OR IGNORE INTO BookAuthor (book, author) VALUES (?, ?)", bookID, authorID); err != nil {
				return fmt.Errorf("linking author %q to book %q: %w", author, book.Title, err)
			}
		}
		for _, genre := range book.Genres {
			genreID, err := createGenre(tx, genre)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT OR IGNORE INTO BookGenre (book, genre) VALUES (?, ?)", bookID, genreID); err != nil {
				return fmt.Errorf("linking genre %q to book %q: %w", genre, book.Title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func createBook(tx *sql.Tx, book BookImport) (int64, bool, error) {
	var id int64
	var err error
	if book.ISBN != "" {
		err = tx.QueryRow("SELECT id FROM Book WHERE isbn = ?", book.ISBN).Scan(&id)
	} else {
		err = tx.QueryRow("SELECT id FROM Book WHERE title = ?", book.Title).Scan(&id)
	}
	if err == nil {
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("checking book %q: %w", book.Title, err)
	}

	isbn := sql.NullString{String: book.ISBN, Valid: book.ISBN != ""}
	res, err := tx.Exec(`INSERT INTO Book
		(title, isbn, publication_year, description, page_count, average_rating, ratings_count, language, publisher)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Title, isbn, book.PublicationYear, book.Description, book.PageCount,
		book.AverageRating, book.RatingsCount, book.Language, book.Publisher)
	if err != nil {
		return 0, false, fmt.Errorf("inserting book %q: %w", book.Title, err)
	}
	id, err = res.LastInsertId()
	return id, true, err
}

func createAuthor(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM Author WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking author %q: %w", name, err)
	}

	res, err := tx.Exec("INSERT INTO Author (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("inserting author %q: %w", name, err)
	}
	return res.LastInsertId()
}

func createGenre(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM Genre WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking genre %q: %w", name, err)
	}

	res, err := tx.Exec("INSERT INTO Genre (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("inserting genre %q: %w", name, err)
	}
	return res.LastInsertId()
}

// GetBook returns the engine view of one book.
func (s *Store) GetBook(id int64) (recommend.Book, error) {
	row := s.db.QueryRow("SELECT id, title, COALESCE(average_rating, 0), COALESCE(page_count, 0) FROM Book WHERE id = ?", id)
	var b recommend.Book
	err := row.Scan(&b.ID, &b.Title, &b.AverageRating, &b.PageCount)
	if err == sql.ErrNoRows {
		return recommend.Book{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return recommend.Book{}, fmt.Errorf("scanning book %d: %w", id, err)
	}

	attrs, err := s.bookAttributes("WHERE b.id = ?", id)
	if err != nil {
		return recommend.Book{}, err
	}
	if a, ok := attrs[b.ID]; ok {
		b.Genres = a.genres
		b.Authors = a.authors
	}
	return b, nil
}

// GetCandidateBooks returns every book not in the user's reading history, in
// the engine's view. This is the candidate pool for recommendations.
func (s *Store) GetCandidateBooks(userID int64) ([]recommend.Book, error) {
	query := `
	SELECT b.id, b.title, COALESCE(b.average_rating, 0), COALESCE(b.page_count, 0)
	FROM Book b
	WHERE b.id NOT IN (SELECT book FROM Reading WHERE user = ?)
	ORDER BY b.id
	`
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying candidate books: %w", err)
	}
	defer rows.Close()

	var books []recommend.Book
	for rows.Next() {
		var b recommend.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AverageRating, &b.PageCount); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrs, err := s.bookAttributes("", nil)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if a, ok := attrs[books[i].ID]; ok {
			books[i].Genres = a.genres
			books[i].Authors = a.authors
		}
	}
	return books, nil
}

type bookAttrs struct {
	genres  []string
	authors []string
}

// bookAttributes loads genre and author names per book in two queries rather
// than one per book.
func (s *Store) bookAttributes(where string, arg interface{}) (map[int64]*bookAttrs, error) {
	attrs := make(map[int64]*bookAttrs)

	get := func(id int64) *bookAttrs {
		a, ok := attrs[id]
		if !ok {
			a = &bookAttrs{}
			attrs[id] = a
		}
		return a
	}

	genreQuery := `
	SELECT b.id, g.name
	FROM Book b
	JOIN BookGenre bg ON bg.book = b.id
	JOIN Genre g ON g.id = bg.genre
	` + where + " ORDER BY g.name"
	authorQuery := `
	SELECT b.id, a.name
	FROM Book b
	JOIN BookAuthor ba ON ba.book = b.id
	JOIN Author a ON a.id = ba.author
	` + where + " ORDER BY a.name"

	for i, query := range []string{genreQuery, authorQuery} {
		var rows *sql.Rows
		var err error
		if arg != nil {
			rows, err = s.db.Query(query, arg)
		} else {
			rows, err = s.db.Query(query)
		}
		if err != nil {
			return nil, fmt.Errorf("querying book attributes: %w", err)
		}
		for rows.Next() {
			var id int64
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return nil, err
			}
			a := get(id)
			if i == 0 {
				a.genres = append(a.genres, name)
			} else {
				a.authors = append(a.authors, name)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return attrs, nil
}

// ListBooks returns the whole catalog in the engine's view.
func (s *Store) ListBooks() ([]recommend.Book, error) {
	query := `
	SELECT id, title, COALESCE(average_rating, 0), COALESCE(page_count, 0)
	FROM Book
	ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []recommend.Book
	for rows.Next() {
		var b recommend.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AverageRating, &b.PageCount); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	attrs, err := s.bookAttributes("", nil)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if a, ok := attrs[books[i].ID]; ok {
			books[i].Genres = a.genres
			books[i].Authors = a.authors
		}
	}
	return books, nil
}

// FindBookByTitle resolves a book by exact title, for CLI use.
func (s *Store) FindBookByTitle(title string) (recommend.Book, error) {
	row := s.db.QueryRow("SELECT id FROM Book WHERE title = ?", title)
	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return recommend.Book{}, fmt.Errorf("book %q: %w", title, ErrNotFound)
	}
	if err != nil {
		return recommend.Book{}, fmt.Errorf("finding book %q: %w", title, err)
	}
	return s.GetBook(id)
}

// CountBooks returns the catalog size.
func (s *Store) CountBooks() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM Book").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return count, nil
}
