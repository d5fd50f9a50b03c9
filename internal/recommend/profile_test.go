package recommend

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildProfileEmptyHistory(t *testing.T) {
	cfg := DefaultConfig()
	profile := BuildProfile(nil, Preferences{}, cfg)

	if len(profile.GenreAffinity) != 0 {
		t.Errorf("empty history produced genre affinities: %v", profile.GenreAffinity)
	}
	if len(profile.AuthorAffinity) != 0 {
		t.Errorf("empty history produced author affinities: %v", profile.AuthorAffinity)
	}
	if profile.RatingRange.Min != cfg.RatingMin || profile.RatingRange.Max != cfg.RatingMax {
		t.Errorf("rating range = %+v, want full scale [%v, %v]", profile.RatingRange, cfg.RatingMin, cfg.RatingMax)
	}
	if !profile.PageRange.Unbounded {
		t.Errorf("page range = %+v, want unbounded", profile.PageRange)
	}
	if profile.TotalBooks != 0 || profile.RatedBooks != 0 {
		t.Errorf("counts = %d/%d, want 0/0", profile.RatedBooks, profile.TotalBooks)
	}
}

func TestBuildProfileAffinityWeightedByRating(t *testing.T) {
	// One 5-star fantasy read and one 2-star romance read. Fantasy weight is
	// (5-1)/4 = 1.0, romance (2-1)/4 = 0.25, so affinities are 0.8 and 0.2.
	history := []HistoryEntry{
		{
			Book:      Book{ID: 1, Title: "A", Genres: []string{"fantasy"}},
			Rating:    5,
			HasRating: true,
			Status:    StatusCompleted,
		},
		{
			Book:      Book{ID: 2, Title: "B", Genres: []string{"romance"}},
			Rating:    2,
			HasRating: true,
			Status:    StatusCompleted,
		},
	}
	profile := BuildProfile(history, Preferences{}, DefaultConfig())

	if !almostEqual(profile.GenreAffinity["fantasy"], 0.8) {
		t.Errorf("fantasy affinity = %v, want 0.8", profile.GenreAffinity["fantasy"])
	}
	if !almostEqual(profile.GenreAffinity["romance"], 0.2) {
		t.Errorf("romance affinity = %v, want 0.2", profile.GenreAffinity["romance"])
	}
	if profile.GenreAffinity["fantasy"] <= profile.GenreAffinity["romance"] {
		t.Error("higher-rated genre should have higher affinity")
	}
}

func TestBuildProfileMinimumRatedBookContributesZero(t *testing.T) {
	history := []HistoryEntry{
		{
			Book:      Book{ID: 1, Title: "A", Genres: []string{"horror"}},
			Rating:    1,
			HasRating: true,
			Status:    StatusCompleted,
		},
	}
	profile := BuildProfile(history, Preferences{}, DefaultConfig())

	// A 1-star read normalizes to weight 0: the genre is known but not liked.
	if profile.GenreAffinity["horror"] != 0 {
		t.Errorf("horror affinity = %v, want 0", profile.GenreAffinity["horror"])
	}
	if !profile.KnownGenres["horror"] {
		t.Error("horror should still be in the known genre set")
	}
}

func TestBuildProfileExperiencedSets(t *testing.T) {
	history := []HistoryEntry{
		{
			Book:   Book{ID: 1, Genres: []string{"scifi"}, Authors: []string{"Le Guin"}},
			Status: StatusCompleted,
		},
		{
			Book:   Book{ID: 2, Genres: []string{"mystery"}, Authors: []string{"Christie"}},
			Status: StatusWantToRead,
		},
		{
			Book:   Book{ID: 3, Genres: []string{"thriller"}},
			Status: StatusAbandoned,
		},
	}
	profile := BuildProfile(history, Preferences{}, DefaultConfig())

	if !profile.KnownGenres["scifi"] {
		t.Error("completed book's genre should be known")
	}
	if profile.KnownGenres["mystery"] {
		t.Error("wishlisted, unrated book's genre should not be known")
	}
	if !profile.KnownGenres["thriller"] {
		t.Error("abandoned book's genre should be known; the user tried it")
	}
	if !profile.KnownAuthors["Le Guin"] {
		t.Error("completed book's author should be known")
	}
	if profile.KnownAuthors["Christie"] {
		t.Error("wishlisted book's author should not be known")
	}
}

func TestBuildProfileRatingRange(t *testing.T) {
	cfg := DefaultConfig()

	// Single rating: full scale, never a degenerate point range.
	one := []HistoryEntry{
		{Book: Book{ID: 1}, Rating: 3, HasRating: true, Status: StatusCompleted},
	}
	profile := BuildProfile(one, Preferences{}, cfg)
	if profile.RatingRange.Min != cfg.RatingMin || profile.RatingRange.Max != cfg.RatingMax {
		t.Errorf("single rating range = %+v, want full scale", profile.RatingRange)
	}

	// Two ratings 3 and 5: mean 4, stddev 1, so [3, 5].
	two := append(one, HistoryEntry{
		Book: Book{ID: 2}, Rating: 5, HasRating: true, Status: StatusCompleted,
	})
	profile = BuildProfile(two, Preferences{}, cfg)
	if !almostEqual(profile.RatingRange.Min, 3) || !almostEqual(profile.RatingRange.Max, 5) {
		t.Errorf("rating range = %+v, want [3, 5]", profile.RatingRange)
	}

	// Identical high ratings clip at the scale maximum.
	clipped := []HistoryEntry{
		{Book: Book{ID: 1}, Rating: 5, HasRating: true, Status: StatusCompleted},
		{Book: Book{ID: 2}, Rating: 5, HasRating: true, Status: StatusCompleted},
	}
	profile = BuildProfile(clipped, Preferences{}, cfg)
	if profile.RatingRange.Max > cfg.RatingMax {
		t.Errorf("rating range max = %v, exceeds scale max %v", profile.RatingRange.Max, cfg.RatingMax)
	}
}

func TestBuildProfilePageRange(t *testing.T) {
	history := []HistoryEntry{
		{Book: Book{ID: 1, PageCount: 300}, Status: StatusCompleted},
		{Book: Book{ID: 2, PageCount: 500}, Status: StatusCompleted},
		// In-progress and zero-page books don't count toward page stats.
		{Book: Book{ID: 3, PageCount: 1000}, Status: StatusReading},
		{Book: Book{ID: 4, PageCount: 0}, Status: StatusCompleted},
	}
	profile := BuildProfile(history, Preferences{}, DefaultConfig())

	if profile.PageRange.Unbounded {
		t.Fatal("page range should be bounded with completed page data")
	}
	// Mean 400, stddev 100.
	if !almostEqual(profile.PageRange.Min, 300) || !almostEqual(profile.PageRange.Max, 500) {
		t.Errorf("page range = %+v, want [300, 500]", profile.PageRange)
	}
	if !almostEqual(profile.PageRange.Center(), 400) {
		t.Errorf("page range center = %v, want 400", profile.PageRange.Center())
	}
}

func TestBuildProfilePreferenceBoost(t *testing.T) {
	cfg := DefaultConfig()
	prefs := Preferences{Genres: []string{"poetry"}, Authors: []string{"Oliver"}}

	profile := BuildProfile(nil, prefs, cfg)
	if !almostEqual(profile.GenreAffinity["poetry"], cfg.PreferenceBoost) {
		t.Errorf("unread favorite genre affinity = %v, want %v", profile.GenreAffinity["poetry"], cfg.PreferenceBoost)
	}
	if !almostEqual(profile.AuthorAffinity["Oliver"], cfg.PreferenceBoost) {
		t.Errorf("unread favorite author affinity = %v, want %v", profile.AuthorAffinity["Oliver"], cfg.PreferenceBoost)
	}

	// Boost on top of history is clamped to 1.
	history := []HistoryEntry{
		{Book: Book{ID: 1, Genres: []string{"poetry"}}, Rating: 5, HasRating: true, Status: StatusCompleted},
	}
	profile = BuildProfile(history, prefs, cfg)
	if profile.GenreAffinity["poetry"] > 1 {
		t.Errorf("boosted affinity = %v, exceeds 1", profile.GenreAffinity["poetry"])
	}
}

func TestBuildProfileDeterministic(t *testing.T) {
	history := []HistoryEntry{
		{Book: Book{ID: 1, Genres: []string{"fantasy", "adventure"}, Authors: []string{"Tolkien"}, PageCount: 400}, Rating: 5, HasRating: true, Status: StatusCompleted},
		{Book: Book{ID: 2, Genres: []string{"scifi"}, Authors: []string{"Asimov"}, PageCount: 250}, Rating: 4, HasRating: true, Status: StatusCompleted},
	}
	prefs := Preferences{Genres: []string{"fantasy"}}
	cfg := DefaultConfig()

	a := BuildProfile(history, prefs, cfg)
	b := BuildProfile(history, prefs, cfg)

	for g, v := range a.GenreAffinity {
		if !almostEqual(b.GenreAffinity[g], v) {
			t.Errorf("genre %s affinity differs between runs: %v vs %v", g, v, b.GenreAffinity[g])
		}
	}
	if a.RatingRange != b.RatingRange || a.PageRange != b.PageRange {
		t.Error("ranges differ between identical runs")
	}
}
