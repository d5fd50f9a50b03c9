package recommend

// ComfortLevel is the user-selected dial between familiar and novel books.
type ComfortLevel string

const (
	SameOld       ComfortLevel = "same_old"
	ComfortZone   ComfortLevel = "comfort_zone"
	Balanced      ComfortLevel = "balanced"
	Adventurous   ComfortLevel = "adventurous"
	CompletelyNew ComfortLevel = "completely_new"
)

// Weights is one comfort level's weight vector over the four similarity
// sub-scores, plus a signed familiarity coefficient. The four sub-score
// weights sum to exactly 1.0 for every level.
type Weights struct {
	Genre     float64
	Author    float64
	Rating    float64
	PageCount float64

	// Familiarity is added to the composite for a fully-familiar book and
	// subtracted for a fully-novel one. Positive levels reward staying in
	// known territory, negative levels reward leaving it.
	Familiarity float64
}

// Sum returns the total of the four sub-score weights.
func (w Weights) Sum() float64 {
	return w.Genre + w.Author + w.Rating + w.PageCount
}

var comfortWeights = map[ComfortLevel]Weights{
	SameOld:       {Genre: 0.40, Author: 0.30, Rating: 0.20, PageCount: 0.10, Familiarity: 0.15},
	ComfortZone:   {Genre: 0.35, Author: 0.25, Rating: 0.25, PageCount: 0.15, Familiarity: 0.08},
	Balanced:      {Genre: 0.25, Author: 0.25, Rating: 0.25, PageCount: 0.25, Familiarity: 0},
	Adventurous:   {Genre: 0.15, Author: 0.15, Rating: 0.35, PageCount: 0.35, Familiarity: -0.08},
	CompletelyNew: {Genre: 0.10, Author: 0.05, Rating: 0.45, PageCount: 0.40, Familiarity: -0.15},
}

// Levels returns all comfort levels in order from most to least familiar.
func Levels() []ComfortLevel {
	return []ComfortLevel{SameOld, ComfortZone, Balanced, Adventurous, CompletelyNew}
}

// ParseComfortLevel validates a comfort level string.
func ParseComfortLevel(s string) (ComfortLevel, error) {
	level := ComfortLevel(s)
	if _, ok := comfortWeights[level]; !ok {
		return "", invalidComfortLevel(s)
	}
	return level, nil
}

// WeightsFor returns the weight vector for a level.
func WeightsFor(level ComfortLevel) (Weights, error) {
	w, ok := comfortWeights[level]
	if !ok {
		return Weights{}, invalidComfortLevel(string(level))
	}
	return w, nil
}
