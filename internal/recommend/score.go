package recommend

// NoveltyFraction is the share of a book's genres and authors that fall
// outside the profile's experienced sets: 0 for a fully-familiar book, 1 for
// a fully-novel one. A book with no attributes at all gives 0.5, which
// cancels the adjustment.
func NoveltyFraction(book Book, profile TasteProfile) float64 {
	total := 0
	novel := 0
	for _, g := range book.Genres {
		total++
		if !profile.KnownGenres[g] {
			novel++
		}
	}
	for _, a := range book.Authors {
		total++
		if !profile.KnownAuthors[a] {
			novel++
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(novel) / float64(total)
}

// ApplyComfort combines the sub-scores under a comfort level's weight vector
// and adds the novelty adjustment. A fully-familiar book receives the level's
// familiarity coefficient, a fully-novel book its mirror, and partial overlap
// interpolates linearly. The composite is left unclamped: it ranks candidates
// within one request and is not a calibrated probability.
func ApplyComfort(sub Subscores, w Weights, novelFraction float64) (novelty, composite float64) {
	novelty = w.Familiarity * (1 - 2*novelFraction)
	composite = w.Genre*sub.Genre +
		w.Author*sub.Author +
		w.Rating*sub.Rating +
		w.PageCount*sub.PageCount +
		novelty
	return novelty, composite
}
