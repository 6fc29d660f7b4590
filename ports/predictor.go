package ports

// Predictor labels a single feature vector. Class 0 is the negative class.
type Predictor interface {
	Predict(features []float64) (int, error)
	// NumFeatures returns the expected vector length, or 0 if unchecked.
	NumFeatures() int
}
