package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"fraudeda/domain/dataset"
)

// TransactionGeneratorConfig configures the synthetic card transaction generator
type TransactionGeneratorConfig struct {
	Rows      int     `json:"rows"`
	FraudRate float64 `json:"fraud_rate"`
	// FraudAmountFactor scales the amount of fraudulent transactions.
	FraudAmountFactor float64 `json:"fraud_amount_factor"`
	MissingRate       float64 `json:"missing_rate"`
	Seed              int64   `json:"seed"`
}

// DefaultTransactionConfig returns sensible defaults for transaction generation
func DefaultTransactionConfig() TransactionGeneratorConfig {
	return TransactionGeneratorConfig{
		Rows:              1000,
		FraudRate:         0.02,
		FraudAmountFactor: 8,
		MissingRate:       0.01,
		Seed:              42,
	}
}

var merchantCategories = []string{"grocery", "fuel", "travel", "electronics", "restaurant", "online"}

// merchantWeights skews legitimate spend toward everyday categories
var merchantWeights = []float64{0.3, 0.2, 0.08, 0.07, 0.2, 0.15}

// TransactionGenerator generates a seeded credit card transaction dataset
type TransactionGenerator struct {
	config TransactionGeneratorConfig
	rng    *rand.Rand
}

// NewTransactionGenerator creates a new transaction generator
func NewTransactionGenerator(config TransactionGeneratorConfig) *TransactionGenerator {
	return &TransactionGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a dataset with columns transaction_id, amount, hour,
// merchant_category, card_present and class (1 = fraud).
func (g *TransactionGenerator) Generate() (*dataset.Dataset, error) {
	n := g.config.Rows
	if n < 0 {
		return nil, fmt.Errorf("rows must be non-negative, got %d", n)
	}

	ids := make([]string, n)
	amounts := make([]float64, n)
	hours := make([]float64, n)
	merchants := make([]string, n)
	present := make([]bool, n)
	class := make([]float64, n)

	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("txn_%06d", i+1)
		fraud := g.rng.Float64() < g.config.FraudRate

		// Log-normal spend centred around ~40
		amount := math.Exp(3.7 + 0.8*g.rng.NormFloat64())
		if fraud {
			amount *= g.config.FraudAmountFactor
			class[i] = 1
			hours[i] = float64(g.rng.Intn(6)) // fraud clusters overnight
			merchants[i] = merchantCategories[2+g.rng.Intn(2)]
			present[i] = g.rng.Float64() < 0.1
		} else {
			hours[i] = float64(7 + g.rng.Intn(16))
			merchants[i] = g.weightedMerchant()
			present[i] = g.rng.Float64() < 0.7
		}
		amounts[i] = math.Round(amount*100) / 100

		if g.rng.Float64() < g.config.MissingRate {
			amounts[i] = math.NaN()
		}
		if g.rng.Float64() < g.config.MissingRate {
			merchants[i] = ""
		}
	}

	return dataset.New(
		dataset.NewTextColumn("transaction_id", ids),
		dataset.NewNumericColumn("amount", amounts),
		dataset.NewNumericColumn("hour", hours),
		dataset.NewTextColumn("merchant_category", merchants),
		dataset.NewBooleanColumn("card_present", present),
		dataset.NewNumericColumn("class", class),
	)
}

// ReadDataset generates the dataset, letting the generator stand in for a file reader
func (g *TransactionGenerator) ReadDataset() (*dataset.Dataset, error) {
	return g.Generate()
}

func (g *TransactionGenerator) weightedMerchant() string {
	r := g.rng.Float64()
	acc := 0.0
	for i, w := range merchantWeights {
		acc += w
		if r < acc {
			return merchantCategories[i]
		}
	}
	return merchantCategories[len(merchantCategories)-1]
}
