// Package recommend implements the comfort-level book recommendation engine.
// It is pure computation: callers fetch reading history, preferences, and the
// candidate pool from the store and pass immutable snapshots in.
package recommend

// ReadingStatus describes where a book sits in a user's reading life.
type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "want_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
	StatusAbandoned  ReadingStatus = "abandoned"
)

// Book is the candidate view of a catalog entry. It is read-only to the
// engine; the store owns the full record.
type Book struct {
	ID            int64    `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Genres        []string `json:"genres" yaml:"genres"`
	Authors       []string `json:"authors" yaml:"authors"`
	AverageRating float64  `json:"average_rating" yaml:"average_rating"`
	PageCount     int      `json:"page_count" yaml:"page_count"`
}

// HistoryEntry is one row of a user's reading history.
type HistoryEntry struct {
	Book      Book
	Rating    float64
	HasRating bool
	Status    ReadingStatus
}

// Preferences are a user's explicitly stated tastes, merged into the derived
// profile with an additive boost so an unread favorite still scores.
type Preferences struct {
	Genres  []string
	Authors []string
}

// Range is a preferred interval for ratings or page counts. Unbounded marks
// the no-data fallback for page counts, where scoring stays neutral.
type Range struct {
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
	Unbounded bool    `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
}

// Center returns the midpoint of the range.
func (r Range) Center() float64 {
	return (r.Min + r.Max) / 2
}

// TasteProfile is a derived, immutable snapshot of a user's tastes at a point
// in time. It is recomputed on demand and never persisted.
type TasteProfile struct {
	GenreAffinity  map[string]float64 `json:"genre_affinity" yaml:"genre_affinity"`
	AuthorAffinity map[string]float64 `json:"author_affinity" yaml:"author_affinity"`
	RatingRange    Range              `json:"rating_range" yaml:"rating_range"`
	PageRange      Range              `json:"page_range" yaml:"page_range"`
	KnownGenres    map[string]bool    `json:"known_genres" yaml:"known_genres"`
	KnownAuthors   map[string]bool    `json:"known_authors" yaml:"known_authors"`
	RatedBooks     int                `json:"rated_books" yaml:"rated_books"`
	TotalBooks     int                `json:"total_books" yaml:"total_books"`
}

// Subscores are the four independent similarity scores, each in [0, 1].
type Subscores struct {
	Genre     float64 `json:"genre" yaml:"genre"`
	Author    float64 `json:"author" yaml:"author"`
	Rating    float64 `json:"rating" yaml:"rating"`
	PageCount float64 `json:"page_count" yaml:"page_count"`
}

// ScoreBreakdown explains how a composite score was assembled. The composite
// is a relative ranking signal within one request, not a probability, so it
// is not clamped to [0, 1].
type ScoreBreakdown struct {
	Subscores Subscores `json:"subscores" yaml:"subscores"`
	Novelty   float64   `json:"novelty" yaml:"novelty"`
	Composite float64   `json:"composite" yaml:"composite"`
}

// Recommendation pairs a candidate book with its score breakdown and
// human-readable reasons.
type Recommendation struct {
	Book      Book           `json:"book" yaml:"book"`
	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
	Reasons   []string       `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// Filters are hard constraints on the candidate pool. They exclude books,
// never adjust scores. Zero values mean "no constraint".
type Filters struct {
	Genre     string  `json:"genre,omitempty"`
	Author    string  `json:"author,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
	MinPages  int     `json:"min_pages,omitempty"`
	MaxPages  int     `json:"max_pages,omitempty"`
}

// Request describes one ranking call.
type Request struct {
	Comfort ComfortLevel `json:"comfort_level"`
	Filters Filters      `json:"filters"`
	Limit   int          `json:"limit,omitempty"`
}
