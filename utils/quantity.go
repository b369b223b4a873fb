package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Leading "<number><unit>" token in a free-text serving size ("45 g",
// "250ml", "1,5 l").
var servingTokenPattern = regexp.MustCompile(`([\d.,]+)\s*([\p{L}%]+)`)

// ParseNumeric coerces heterogeneous provider values into a float.
// Strings may use a comma decimal separator. Negative or unparseable
// input is treated as 0.
func ParseNumeric(value any) float64 {
	var parsed float64

	switch v := value.(type) {
	case float64:
		parsed = v
	case float32:
		parsed = float64(v)
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0
		}
		parsed = f
	default:
		return 0
	}

	if parsed < 0 {
		return 0
	}
	return parsed
}

// NormalizeQuantity converts a quantity into canonical grams or
// milliliters. Unrecognized or empty units pass the quantity through
// unchanged.
func NormalizeQuantity(quantity float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg":
		return quantity * 1000
	case "g":
		return quantity
	case "l":
		return quantity * 1000
	case "ml":
		return quantity
	case "cl":
		return quantity * 10
	case "dl":
		return quantity * 100
	default:
		return quantity
	}
}

// ClassifyUnit resolves the canonical unit ("g" or "ml") for a product.
// The explicit unit wins, then a unit token parsed out of the free-text
// serving size, then a size heuristic: totals of 1000+ without any unit
// are more likely liquid volumes.
func ClassifyUnit(rawUnit, servingSize string, referenceQuantity float64) string {
	if u := canonicalUnit(rawUnit); u != "" {
		return u
	}

	if m := servingTokenPattern.FindStringSubmatch(servingSize); m != nil {
		if u := canonicalUnit(m[2]); u != "" {
			return u
		}
	}

	if referenceQuantity >= 1000 {
		return "ml"
	}
	return "g"
}

// ParseServingSize extracts the leading quantity+unit token from a
// free-text serving size. ok is false when no token is present.
func ParseServingSize(servingSize string) (quantity float64, unit string, ok bool) {
	m := servingTokenPattern.FindStringSubmatch(servingSize)
	if m == nil {
		return 0, "", false
	}
	return ParseNumeric(m[1]), m[2], true
}

func canonicalUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg", "g":
		return "g"
	case "l", "ml", "cl", "dl":
		return "ml"
	default:
		return ""
	}
}
