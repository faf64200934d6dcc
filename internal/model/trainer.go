package model

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/dataset"
)

const defaultTrees = 100

// TrainConfig holds training pipeline parameters.
type TrainConfig struct {
	// Trees is the ensemble size. Defaults to defaultTrees.
	Trees int

	// Seed drives both the train/test split and bagging. Defaults to 42.
	Seed int64

	// TestFraction is the held-out share of samples. Defaults to 0.2.
	TestFraction float64

	// MinLeafSize is the minimum samples per leaf.
	MinLeafSize int

	Logger zerolog.Logger
}

// TrainReport is the result of a training run.
type TrainReport struct {
	Forest *Forest

	// MSE and MAE are measured on the held-out test split.
	MSE float64
	MAE float64

	TrainSize int
	TestSize  int
}

// Train converts trips into a feature matrix, holds out a test split, fits a
// forest on the remainder and evaluates it.
func Train(trips []dataset.Trip, cfg TrainConfig) (*TrainReport, error) {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}

	x, y, err := dataset.Matrix(trips)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx := TrainTestSplit(len(x), cfg.TestFraction, cfg.Seed)

	forest, err := Fit(subset(x, trainIdx), subsetY(y, trainIdx), dataset.FeatureNames, ForestConfig{
		Trees:       cfg.Trees,
		Seed:        cfg.Seed,
		MinLeafSize: cfg.MinLeafSize,
	})
	if err != nil {
		return nil, err
	}

	predictions := make([]float64, len(testIdx))
	actuals := make([]float64, len(testIdx))
	for i, idx := range testIdx {
		p, err := forest.Predict(x[idx])
		if err != nil {
			return nil, err
		}
		predictions[i] = p
		actuals[i] = y[idx]
	}

	report := &TrainReport{
		Forest:    forest,
		MSE:       MeanSquaredError(actuals, predictions),
		MAE:       MeanAbsoluteError(actuals, predictions),
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}

	cfg.Logger.Debug().
		Int("trees", len(forest.Trees)).
		Float64("mse", report.MSE).
		Msg("forest fitted")

	return report, nil
}

// TrainTestSplit shuffles row indices with a seeded source and carves off the
// first testFraction of them as the test set. The same n, fraction and seed
// always yield the same split.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testSize := int(math.Round(float64(n) * testFraction))
	return indices[testSize:], indices[:testSize]
}

// MeanSquaredError computes the mean of squared residuals.
func MeanSquaredError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

// MeanAbsoluteError computes the mean of absolute residuals.
func MeanAbsoluteError(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

func subset(x [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = x[idx]
	}
	return out
}

func subsetY(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}
