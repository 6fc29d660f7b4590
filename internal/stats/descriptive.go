package stats

import (
	"errors"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInsufficientData is returned when a statistic needs more observations
var ErrInsufficientData = errors.New("insufficient data")

// Description mirrors a describe() row: count, mean, sample std, min,
// quartiles and max. Statistics that are undefined for the sample are NaN.
type Description struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Dispersion holds spread measures for one column
type Dispersion struct {
	Range    float64
	Variance float64
	Std      float64
	IQR      float64
}

// Describe computes summary statistics for data
func Describe(data []float64) Description {
	d := Description{Count: len(data)}
	if len(data) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q1, d.Median, d.Q3, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	d.Mean, _ = mstats.Mean(data)
	d.Min, _ = mstats.Min(data)
	d.Max, _ = mstats.Max(data)
	d.Std = SampleStd(data)

	sorted := sortedCopy(data)
	d.Q1 = quantileSorted(sorted, 0.25)
	d.Median = quantileSorted(sorted, 0.5)
	d.Q3 = quantileSorted(sorted, 0.75)
	return d
}

// Spread computes range, sample variance, sample std and IQR
func Spread(data []float64) Dispersion {
	if len(data) == 0 {
		nan := math.NaN()
		return Dispersion{Range: nan, Variance: nan, Std: nan, IQR: nan}
	}
	minVal, _ := mstats.Min(data)
	maxVal, _ := mstats.Max(data)
	q1, q3 := Quartiles(data)
	return Dispersion{
		Range:    maxVal - minVal,
		Variance: SampleVariance(data),
		Std:      SampleStd(data),
		IQR:      q3 - q1,
	}
}

// SampleVariance is the n-1 normalised variance, NaN below two observations
func SampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	v, err := mstats.SampleVariance(data)
	if err != nil {
		return math.NaN()
	}
	return v
}

// SampleStd is the square root of SampleVariance
func SampleStd(data []float64) float64 {
	return math.Sqrt(SampleVariance(data))
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks, rank = q*(n-1).
func Quantile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return quantileSorted(sortedCopy(data), q)
}

// Quartiles returns Q1 and Q3
func Quartiles(data []float64) (q1, q3 float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	sorted := sortedCopy(data)
	return quantileSorted(sorted, 0.25), quantileSorted(sorted, 0.75)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	rank := q * float64(n-1)
	lower := int(math.Floor(rank))
	upper := lower + 1
	if upper >= n {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}

func sortedCopy(data []float64) []float64 {
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return cp
}

// ZScores standardises data with the population standard deviation. A
// constant or empty input yields NaN scores.
func ZScores(data []float64) []float64 {
	scores := make([]float64, len(data))
	if len(data) == 0 {
		return scores
	}
	mean, _ := mstats.Mean(data)
	std, err := mstats.StandardDeviationPopulation(data)
	for i, v := range data {
		if err != nil || std == 0 {
			scores[i] = math.NaN()
			continue
		}
		scores[i] = (v - mean) / std
	}
	return scores
}

// Pearson returns the Pearson correlation of x and y
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, errors.New("pearson: length mismatch")
	}
	if len(x) < 2 {
		return 0, ErrInsufficientData
	}
	return stat.Correlation(x, y, nil), nil
}

// KernelDensity estimates a Gaussian KDE over gridSize points. The
// bandwidth follows Scott's rule and the grid extends three bandwidths past
// the data range.
func KernelDensity(data []float64, gridSize int) (xs, ys []float64, err error) {
	if len(data) < 2 {
		return nil, nil, ErrInsufficientData
	}
	if gridSize < 2 {
		gridSize = 200
	}
	std := SampleStd(data)
	if std == 0 || math.IsNaN(std) {
		return nil, nil, ErrInsufficientData
	}
	bw := std * math.Pow(float64(len(data)), -1.0/5.0)
	minVal, _ := mstats.Min(data)
	maxVal, _ := mstats.Max(data)
	lo, hi := minVal-3*bw, maxVal+3*bw
	step := (hi - lo) / float64(gridSize-1)

	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	n := float64(len(data))
	xs = make([]float64, gridSize)
	ys = make([]float64, gridSize)
	for i := range xs {
		x := lo + float64(i)*step
		sum := 0.0
		for _, v := range data {
			sum += kernel.Prob(x - v)
		}
		xs[i] = x
		ys[i] = sum / n
	}
	return xs, ys, nil
}
