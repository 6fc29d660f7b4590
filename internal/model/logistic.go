// Package model loads pre-trained fraud classifiers from coefficient files.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"fraudeda/internal/errors"
)

// KindLogistic is the only supported model kind
const KindLogistic = "logistic"

// DefaultThreshold is used when the file leaves threshold unset
const DefaultThreshold = 0.5

// File is the on-disk JSON form of a model
type File struct {
	Kind         string    `json:"kind"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Threshold    *float64  `json:"threshold,omitempty"`
}

// LogisticModel is a binary logistic regression with fixed weights
type LogisticModel struct {
	weights   []float64
	bias      float64
	threshold float64
}

// NewLogisticModel builds a model from weights, bias and decision threshold
func NewLogisticModel(weights []float64, bias, threshold float64) (*LogisticModel, error) {
	if len(weights) == 0 {
		return nil, errors.ModelError("model has no coefficients", nil)
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, errors.ModelError(fmt.Sprintf("threshold %g must be in (0, 1)", threshold), nil)
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &LogisticModel{weights: w, bias: bias, threshold: threshold}, nil
}

// Load reads a JSON model file from path
func Load(path string) (*LogisticModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ModelError(fmt.Sprintf("reading model file %s", path), err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.ModelError(fmt.Sprintf("parsing model file %s", path), err)
	}
	if f.Kind != KindLogistic {
		return nil, errors.ModelError(fmt.Sprintf("unsupported model kind %q", f.Kind), nil)
	}
	threshold := DefaultThreshold
	if f.Threshold != nil {
		threshold = *f.Threshold
	}
	return NewLogisticModel(f.Coefficients, f.Intercept, threshold)
}

// NumFeatures returns the expected feature vector length
func (m *LogisticModel) NumFeatures() int {
	return len(m.weights)
}

// Probability returns sigmoid(w·x + b)
func (m *LogisticModel) Probability(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, errors.InvalidInput(fmt.Sprintf("expected %d features, got %d", len(m.weights), len(features)))
	}
	sum := m.bias
	for i, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, errors.InvalidInput(fmt.Sprintf("feature %d is not a finite number", i))
		}
		sum += m.weights[i] * x
	}
	return sigmoid(sum), nil
}

// Predict returns 1 when the probability reaches the threshold, 0 otherwise
func (m *LogisticModel) Predict(features []float64) (int, error) {
	p, err := m.Probability(features)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
