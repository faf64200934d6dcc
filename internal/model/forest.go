package model

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// ErrFeatureMismatch indicates a feature vector of the wrong width.
	ErrFeatureMismatch = errors.New("feature vector does not match trained features")

	// ErrEmptyTrainingSet indicates a fit with no samples.
	ErrEmptyTrainingSet = errors.New("empty training set")
)

// ForestConfig holds fitting parameters.
type ForestConfig struct {
	// Trees is the ensemble size. Defaults to defaultTrees.
	Trees int

	// Seed makes bagging deterministic. Tree i uses Seed+i.
	Seed int64

	// MinLeafSize is the minimum samples per leaf. Defaults to 1.
	MinLeafSize int
}

// Forest is a bagged regression forest. Fields are exported for gob encoding.
type Forest struct {
	Trees        []*Node
	FeatureNames []string
	Seed         int64
	TrainedAt    time.Time
}

// Fit trains a forest on the given matrix. Each tree is grown on a bootstrap
// sample drawn from its own seeded source, so identical inputs and seeds
// produce identical forests.
func Fit(x [][]float64, y []float64, featureNames []string, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d feature rows for %d targets", len(x), len(y))
	}
	if cfg.Trees <= 0 {
		cfg.Trees = defaultTrees
	}
	if cfg.MinLeafSize <= 0 {
		cfg.MinLeafSize = 1
	}

	trees := make([]*Node, cfg.Trees)
	for i := range trees {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		trees[i] = buildTree(x, y, bootstrap(rng, len(x)), cfg.MinLeafSize)
	}

	return &Forest{
		Trees:        trees,
		FeatureNames: featureNames,
		Seed:         cfg.Seed,
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// Predict returns the mean prediction over all trees.
func (f *Forest) Predict(features []float64) (float64, error) {
	if len(features) != len(f.FeatureNames) {
		return 0, fmt.Errorf("%w: got %d features, want %d",
			ErrFeatureMismatch, len(features), len(f.FeatureNames))
	}

	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(features)
	}
	return sum / float64(len(f.Trees)), nil
}
