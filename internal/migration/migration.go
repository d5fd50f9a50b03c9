// Package migration holds the SQL schema for the bookshelf database.
package migration

// Create contains the full schema for a new database.
const Create = `
CREATE TABLE User (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  created DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE Author (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE Genre (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE Book (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  isbn TEXT UNIQUE,
  publication_year INTEGER,
  description TEXT,
  page_count INTEGER,
  average_rating REAL,
  ratings_count INTEGER,
  language TEXT,
  publisher TEXT
);

CREATE TABLE BookAuthor (
  book INTEGER NOT NULL,
  author INTEGER NOT NULL,
  FOREIGN KEY (book) REFERENCES Book(id),
  FOREIGN KEY (author) REFERENCES Author(id),
  PRIMARY KEY (book, author)
);

CREATE TABLE BookGenre (
  book INTEGER NOT NULL,
  genre INTEGER NOT NULL,
  FOREIGN KEY (book) REFERENCES Book(id),
  FOREIGN KEY (genre) REFERENCES Genre(id),
  PRIMARY KEY (book, genre)
);

CREATE TABLE Reading (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user INTEGER NOT NULL,
  book INTEGER NOT NULL,
  rating REAL,
  status TEXT NOT NULL DEFAULT 'want_to_read',
  start_date DATETIME,
  finish_date DATETIME,
  review TEXT,
  created DATETIME DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY (user) REFERENCES User(id),
  FOREIGN KEY (book) REFERENCES Book(id),
  UNIQUE (user, book)
);

CREATE TABLE Preference (
  user INTEGER PRIMARY KEY,
  genres TEXT NOT NULL DEFAULT '[]',
  authors TEXT NOT NULL DEFAULT '[]',
  min_rating REAL,
  min_pages INTEGER,
  max_pages INTEGER,
  FOREIGN KEY (user) REFERENCES User(id)
);

CREATE TABLE Digest (
  user INTEGER NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  comfort TEXT NOT NULL DEFAULT 'balanced',
  run_day INTEGER NOT NULL DEFAULT 1,
  sent DATETIME,
  FOREIGN KEY (user) REFERENCES User(id),
  PRIMARY KEY (user, name)
);

CREATE INDEX idx_reading_user ON Reading(user);
CREATE INDEX idx_book_genre_book ON BookGenre(book);
CREATE INDEX idx_book_author_book ON BookAuthor(book);
`
