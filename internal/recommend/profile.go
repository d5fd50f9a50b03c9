package recommend

import "math"

// BuildProfile derives a taste profile from a user's reading history and
// stated preferences. An empty history yields a valid, maximally
// uninformative profile rather than an error, so new users still get a
// usable (if generic) recommendation list.
func BuildProfile(history []HistoryEntry, prefs Preferences, cfg Config) TasteProfile {
	profile := TasteProfile{
		GenreAffinity:  make(map[string]float64),
		AuthorAffinity: make(map[string]float64),
		RatingRange:    Range{Min: cfg.RatingMin, Max: cfg.RatingMax},
		PageRange:      Range{Unbounded: true},
		KnownGenres:    make(map[string]bool),
		KnownAuthors:   make(map[string]bool),
		TotalBooks:     len(history),
	}

	span := cfg.RatingMax - cfg.RatingMin
	genreWeight := make(map[string]float64)
	authorWeight := make(map[string]float64)
	var genreTotal, authorTotal float64
	var ratings []float64
	var pages []float64

	for _, entry := range history {
		if experienced(entry) {
			for _, g := range entry.Book.Genres {
				profile.KnownGenres[g] = true
			}
			for _, a := range entry.Book.Authors {
				profile.KnownAuthors[a] = true
			}
		}

		if entry.Status == StatusCompleted && entry.Book.PageCount > 0 {
			pages = append(pages, float64(entry.Book.PageCount))
		}

		// Unrated entries contribute to the experienced sets only. A disliked
		// genre read often must not outrank a loved genre read rarely, so each
		// rated entry weighs in by its normalized rating, not by 1.
		if !entry.HasRating {
			continue
		}
		ratings = append(ratings, entry.Rating)
		weight := (entry.Rating - cfg.RatingMin) / span
		for _, g := range entry.Book.Genres {
			genreWeight[g] += weight
			genreTotal += weight
		}
		for _, a := range entry.Book.Authors {
			authorWeight[a] += weight
			authorTotal += weight
		}
	}
	profile.RatedBooks = len(ratings)

	if genreTotal > 0 {
		for g, w := range genreWeight {
			profile.GenreAffinity[g] = w / genreTotal
		}
	}
	if authorTotal > 0 {
		for a, w := range authorWeight {
			profile.AuthorAffinity[a] = w / authorTotal
		}
	}

	if len(ratings) >= 2 {
		mean, stddev := meanStddev(ratings)
		profile.RatingRange = Range{
			Min: math.Max(cfg.RatingMin, mean-stddev),
			Max: math.Min(cfg.RatingMax, mean+stddev),
		}
	}

	if len(pages) > 0 {
		mean, stddev := meanStddev(pages)
		profile.PageRange = Range{
			Min: math.Max(0, mean-stddev),
			Max: mean + stddev,
		}
	}

	// Stated favorites get an additive boost so they aren't invisible when
	// the user hasn't read them yet.
	for _, g := range prefs.Genres {
		profile.GenreAffinity[g] = math.Min(1, profile.GenreAffinity[g]+cfg.PreferenceBoost)
	}
	for _, a := range prefs.Authors {
		profile.AuthorAffinity[a] = math.Min(1, profile.AuthorAffinity[a]+cfg.PreferenceBoost)
	}

	return profile
}

// experienced reports whether an entry counts toward the known genre/author
// sets. A wishlisted book the user never opened isn't experience.
func experienced(entry HistoryEntry) bool {
	return entry.Status != StatusWantToRead || entry.HasRating
}

func meanStddev(values []float64) (mean, stddev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	stddev = math.Sqrt(sumSq / float64(len(values)))
	return mean, stddev
}
