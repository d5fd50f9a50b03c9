package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestWeightsSumToOne(t *testing.T) {
	for _, level := range Levels() {
		w, err := WeightsFor(level)
		if err != nil {
			t.Fatalf("WeightsFor(%s): %v", level, err)
		}
		if math.Abs(w.Sum()-1.0) > 1e-9 {
			t.Errorf("weights for %s sum to %v, want 1.0", level, w.Sum())
		}
	}
}

func TestWeightValues(t *testing.T) {
	cases := []struct {
		level ComfortLevel
		want  Weights
	}{
		{SameOld, Weights{Genre: 0.40, Author: 0.30, Rating: 0.20, PageCount: 0.10, Familiarity: 0.15}},
		{ComfortZone, Weights{Genre: 0.35, Author: 0.25, Rating: 0.25, PageCount: 0.15, Familiarity: 0.08}},
		{Balanced, Weights{Genre: 0.25, Author: 0.25, Rating: 0.25, PageCount: 0.25, Familiarity: 0}},
		{Adventurous, Weights{Genre: 0.15, Author: 0.15, Rating: 0.35, PageCount: 0.35, Familiarity: -0.08}},
		{CompletelyNew, Weights{Genre: 0.10, Author: 0.05, Rating: 0.45, PageCount: 0.40, Familiarity: -0.15}},
	}
	for _, c := range cases {
		got, err := WeightsFor(c.level)
		if err != nil {
			t.Fatalf("WeightsFor(%s): %v", c.level, err)
		}
		if got != c.want {
			t.Errorf("WeightsFor(%s) = %+v, want %+v", c.level, got, c.want)
		}
	}
}

func TestFamiliarityDecreasesAcrossLevels(t *testing.T) {
	levels := Levels()
	if len(levels) != 5 {
		t.Fatalf("Levels() returned %d levels, want 5", len(levels))
	}
	prev := math.Inf(1)
	for _, level := range levels {
		w, err := WeightsFor(level)
		if err != nil {
			t.Fatalf("WeightsFor(%s): %v", level, err)
		}
		if w.Familiarity >= prev {
			t.Errorf("familiarity for %s = %v, want strictly less than %v", level, w.Familiarity, prev)
		}
		prev = w.Familiarity
	}
}

func TestParseComfortLevel(t *testing.T) {
	level, err := ParseComfortLevel("balanced")
	if err != nil {
		t.Fatalf("ParseComfortLevel(balanced): %v", err)
	}
	if level != Balanced {
		t.Errorf("got %s, want %s", level, Balanced)
	}

	_, err = ParseComfortLevel("extremely_cozy")
	if !errors.Is(err, ErrInvalidComfortLevel) {
		t.Errorf("ParseComfortLevel(extremely_cozy) error = %v, want ErrInvalidComfortLevel", err)
	}

	_, err = ParseComfortLevel("")
	if !errors.Is(err, ErrInvalidComfortLevel) {
		t.Errorf("ParseComfortLevel(\"\") error = %v, want ErrInvalidComfortLevel", err)
	}
}
