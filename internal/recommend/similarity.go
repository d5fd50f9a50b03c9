package recommend

import "math"

// ScoreSimilarity computes the four independent similarity sub-scores for a
// single candidate against a taste profile. Pure function, each score in
// [0, 1].
func ScoreSimilarity(book Book, profile TasteProfile, cfg Config) Subscores {
	return Subscores{
		Genre:     bestAffinity(book.Genres, profile.GenreAffinity),
		Author:    bestAffinity(book.Authors, profile.AuthorAffinity),
		Rating:    ratingScore(book, profile, cfg),
		PageCount: pageScore(book, profile, cfg),
	}
}

// bestAffinity returns the strongest affinity among the book's attributes.
// Best match rather than average: a book matching one loved genre among
// several unrelated ones should still score well.
func bestAffinity(names []string, affinity map[string]float64) float64 {
	best := 0.0
	for _, name := range names {
		if a := affinity[name]; a > best {
			best = a
		}
	}
	return best
}

func ratingScore(book Book, profile TasteProfile, cfg Config) float64 {
	center := profile.RatingRange.Center()
	span := cfg.RatingMax - cfg.RatingMin
	return clamp01(1 - math.Abs(book.AverageRating-center)/span)
}

func pageScore(book Book, profile TasteProfile, cfg Config) float64 {
	if profile.PageRange.Unbounded || book.PageCount <= 0 {
		return cfg.NeutralPageScore
	}
	center := profile.PageRange.Center()
	if center <= 0 {
		return cfg.NeutralPageScore
	}
	denom := math.Max(float64(book.PageCount), center)
	return clamp01(1 - math.Abs(float64(book.PageCount)-center)/denom)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
