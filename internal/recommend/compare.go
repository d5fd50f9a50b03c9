package recommend

import (
	"context"
	"fmt"
	"sync"
)

// CompareAllLevels runs the ranker once per comfort level over the same
// candidate pool and filters, for side-by-side comparison. The five runs are
// independent and execute concurrently; the shared inputs are read-only for
// the duration, so no locking is needed.
func CompareAllLevels(ctx context.Context, pool []Book, profile TasteProfile, req Request, cfg Config) (map[ComfortLevel][]Recommendation, error) {
	levels := Levels()
	results := make([][]Recommendation, len(levels))
	errs := make([]error, len(levels))

	var wg sync.WaitGroup
	for i, level := range levels {
		wg.Add(1)
		go func(i int, level ComfortLevel) {
			defer wg.Done()
			r := req
			r.Comfort = level
			results[i], errs[i] = Recommend(ctx, pool, profile, r, cfg)
		}(i, level)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ranking %s: %w", levels[i], err)
		}
	}

	out := make(map[ComfortLevel][]Recommendation, len(levels))
	for i, level := range levels {
		out[level] = results[i]
	}
	return out, nil
}
