package recommend

// Config holds the process-wide scoring constants. It is constructed once at
// startup and passed explicitly so the scoring functions stay pure.
type Config struct {
	// DefaultLimit is the result count when a request doesn't set one.
	DefaultLimit int

	// MaxLimit caps the result count of any single request.
	MaxLimit int

	// RatingMin and RatingMax define the rating scale.
	RatingMin float64
	RatingMax float64

	// PreferenceBoost is added to the affinity of explicitly stated favorite
	// genres and authors, so a stated-but-unread preference still scores.
	PreferenceBoost float64

	// NeutralPageScore is the page-count sub-score when the profile has no
	// page-count data, neither penalizing nor favoring any length.
	NeutralPageScore float64
}

// DefaultConfig returns the standard scoring constants.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:     10,
		MaxLimit:         50,
		RatingMin:        1,
		RatingMax:        5,
		PreferenceBoost:  0.25,
		NeutralPageScore: 0.5,
	}
}
