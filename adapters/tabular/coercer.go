package tabular

import (
	"math"
	"strconv"
	"strings"

	"fraudeda/domain/dataset"
)

// TypeCoercer decides column types and parses cells deterministically
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	// MissingMarkers are cell values read as missing, compared case-insensitively.
	MissingMarkers []string `json:"missing_markers"`
	// AllowCurrency strips currency symbols and thousands separators before parsing numbers.
	AllowCurrency bool `json:"allow_currency"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingMarkers: []string{"na", "n/a", "nan", "null", "none", "-nan", "#n/a"},
		AllowCurrency:  false,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// IsMissing reports whether a raw cell is empty or a missing marker
func (c *TypeCoercer) IsMissing(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	for _, m := range c.config.MissingMarkers {
		if strings.EqualFold(v, m) {
			return true
		}
	}
	return false
}

// InferType returns numeric when every present cell parses as a number,
// boolean when every present cell is true/false, text otherwise. A column
// with no present cells is numeric.
func (c *TypeCoercer) InferType(cells []string) dataset.ColumnType {
	allNumeric, allBoolean := true, true
	for _, raw := range cells {
		if c.IsMissing(raw) {
			continue
		}
		if allNumeric {
			if _, ok := c.ParseNumeric(raw); !ok {
				allNumeric = false
			}
		}
		if allBoolean {
			if _, ok := ParseBoolean(raw); !ok {
				allBoolean = false
			}
		}
		if !allNumeric && !allBoolean {
			return dataset.TypeText
		}
	}
	if allNumeric {
		return dataset.TypeNumeric
	}
	return dataset.TypeBoolean
}

// ParseNumeric parses a number, optionally stripping currency symbols,
// thousands separators and accounting-style parentheses.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, false
	}

	if c.config.AllowCurrency {
		negative := false
		if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
			clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
			negative = true
		}
		for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP"} {
			clean = strings.ReplaceAll(clean, symbol, "")
		}
		clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", "")
		if negative {
			clean = "-" + clean
		}
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseBoolean accepts true/false in any case
func ParseBoolean(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// BuildColumn converts raw cells to a typed column
func (c *TypeCoercer) BuildColumn(name string, cells []string) dataset.Column {
	switch c.InferType(cells) {
	case dataset.TypeText:
		texts := make([]string, len(cells))
		for i, raw := range cells {
			if !c.IsMissing(raw) {
				texts[i] = strings.TrimSpace(raw)
			}
		}
		return dataset.Column{Name: name, Type: dataset.TypeText, Texts: texts}
	case dataset.TypeBoolean:
		nums := make([]float64, len(cells))
		for i, raw := range cells {
			b, ok := ParseBoolean(raw)
			switch {
			case !ok:
				nums[i] = math.NaN()
			case b:
				nums[i] = 1
			}
		}
		return dataset.Column{Name: name, Type: dataset.TypeBoolean, Numbers: nums}
	default:
		nums := make([]float64, len(cells))
		for i, raw := range cells {
			if c.IsMissing(raw) {
				nums[i] = math.NaN()
				continue
			}
			nums[i], _ = c.ParseNumeric(raw)
		}
		return dataset.Column{Name: name, Type: dataset.TypeNumeric, Numbers: nums}
	}
}
