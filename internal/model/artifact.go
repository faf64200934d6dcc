package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/tripcast/tripcast/internal/dataset"
)

// ErrCorruptArtifact indicates an artifact that decoded but is unusable.
var ErrCorruptArtifact = errors.New("corrupt model artifact")

// SaveArtifact writes the forest to path. The write goes through a temp file
// and rename so a crash never leaves a truncated artifact behind.
func SaveArtifact(path string, forest *Forest) error {
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	if err := gob.NewEncoder(f).Encode(forest); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	return os.Rename(tmp, path)
}

// LoadArtifact reads and validates a forest from path.
func LoadArtifact(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var forest Forest
	if err := gob.NewDecoder(f).Decode(&forest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}

	if len(forest.Trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrCorruptArtifact)
	}
	if len(forest.FeatureNames) != len(dataset.FeatureNames) {
		return nil, fmt.Errorf("%w: trained on %d features, want %d",
			ErrCorruptArtifact, len(forest.FeatureNames), len(dataset.FeatureNames))
	}
	for i, name := range dataset.FeatureNames {
		if forest.FeatureNames[i] != name {
			return nil, fmt.Errorf("%w: feature %d is %q, want %q",
				ErrCorruptArtifact, i, forest.FeatureNames[i], name)
		}
	}

	return &forest, nil
}
