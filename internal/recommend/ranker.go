package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Recommend scores the candidate pool against a profile under one comfort
// level and returns the top results with full score breakdowns. Hard filters
// exclude candidates before any scoring; a filter matching nothing yields an
// empty result, not an error.
func Recommend(ctx context.Context, pool []Book, profile TasteProfile, req Request, cfg Config) ([]Recommendation, error) {
	weights, err := WeightsFor(req.Comfort)
	if err != nil {
		return nil, err
	}
	if err := validateFilters(req.Filters, cfg); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	recs := make([]Recommendation, 0, len(pool))
	for _, book := range pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !matchesFilters(book, req.Filters) {
			continue
		}

		sub := ScoreSimilarity(book, profile, cfg)
		novelFraction := NoveltyFraction(book, profile)
		novelty, composite := ApplyComfort(sub, weights, novelFraction)

		recs = append(recs, Recommendation{
			Book: book,
			Breakdown: ScoreBreakdown{
				Subscores: sub,
				Novelty:   novelty,
				Composite: composite,
			},
			Reasons: reasons(book, profile, weights),
		})
	}

	sortRecommendations(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// SimilarTo runs the same pipeline with the pool restricted to books that
// share at least one genre or author with the base book. The base itself is
// excluded from the output.
func SimilarTo(ctx context.Context, pool []Book, base Book, profile TasteProfile, req Request, cfg Config) ([]Recommendation, error) {
	related := make([]Book, 0, len(pool))
	for _, book := range pool {
		if book.ID == base.ID {
			continue
		}
		if overlaps(book.Genres, base.Genres) || overlaps(book.Authors, base.Authors) {
			related = append(related, book)
		}
	}
	return Recommend(ctx, related, profile, req, cfg)
}

// sortRecommendations orders by composite score descending, breaking ties by
// average rating then title so identical inputs always produce identical
// output.
func sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Breakdown.Composite != b.Breakdown.Composite {
			return a.Breakdown.Composite > b.Breakdown.Composite
		}
		if a.Book.AverageRating != b.Book.AverageRating {
			return a.Book.AverageRating > b.Book.AverageRating
		}
		return a.Book.Title < b.Book.Title
	})
}

func validateFilters(f Filters, cfg Config) error {
	if f.MinRating < 0 || f.MinRating > cfg.RatingMax {
		return invalidFilter("min rating %v outside [0, %v]", f.MinRating, cfg.RatingMax)
	}
	if f.MinPages < 0 {
		return invalidFilter("min pages %d is negative", f.MinPages)
	}
	if f.MaxPages < 0 {
		return invalidFilter("max pages %d is negative", f.MaxPages)
	}
	if f.MaxPages > 0 && f.MinPages > f.MaxPages {
		return invalidFilter("min pages %d exceeds max pages %d", f.MinPages, f.MaxPages)
	}
	return nil
}

func matchesFilters(book Book, f Filters) bool {
	if f.Genre != "" && !contains(book.Genres, f.Genre) {
		return false
	}
	if f.Author != "" && !contains(book.Authors, f.Author) {
		return false
	}
	if f.MinRating > 0 && book.AverageRating < f.MinRating {
		return false
	}
	if f.MinPages > 0 && book.PageCount < f.MinPages {
		return false
	}
	if f.MaxPages > 0 && book.PageCount > f.MaxPages {
		return false
	}
	return true
}

func reasons(book Book, profile TasteProfile, w Weights) []string {
	var out []string

	bestGenre := ""
	best := 0.0
	for _, g := range book.Genres {
		if a := profile.GenreAffinity[g]; a > best {
			best = a
			bestGenre = g
		}
	}
	if bestGenre != "" {
		out = append(out, fmt.Sprintf("Matches your favorite genre: %s", bestGenre))
	}

	for _, a := range book.Authors {
		if profile.AuthorAffinity[a] > 0 {
			out = append(out, fmt.Sprintf("By an author you've enjoyed: %s", a))
			break
		}
	}

	if book.AverageRating >= 4 {
		out = append(out, "Highly rated book")
	}

	if w.Familiarity < 0 {
		var newGenres []string
		for _, g := range book.Genres {
			if !profile.KnownGenres[g] {
				newGenres = append(newGenres, g)
			}
		}
		if len(newGenres) > 0 {
			out = append(out, fmt.Sprintf("Explores new genres: %s", strings.Join(newGenres, ", ")))
		}
	}

	return out
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}
