package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/captenmasin/tracker/utils"
)

// NormalizedFood is the canonical view of an external product: package
// quantities in grams or milliliters plus absolute macro totals, ready
// for the client to split back into servings. Not persisted.
type NormalizedFood struct {
	Name              string  `json:"name"`
	Barcode           string  `json:"barcode,omitempty"`
	ServingSize       float64 `json:"serving_size"`
	ServingUnit       string  `json:"serving_unit"`
	Servings          float64 `json:"servings"`
	Calories          float64 `json:"calories"`
	Protein           float64 `json:"protein"`
	Carb              float64 `json:"carb"`
	Fat               float64 `json:"fat"`
	DefaultQuantity   float64 `json:"default_quantity"`
	ReferenceQuantity float64 `json:"reference_quantity"`
	ServingQuantity   float64 `json:"serving_quantity"`
	TotalQuantity     float64 `json:"total_quantity"`
}

// NormalizeProduct reconciles a raw provider record into a NormalizedFood.
// Returns nil when the record has no usable name; missing quantity or
// nutriment data degrades to zeros rather than failing.
func NormalizeProduct(p *Product, fallbackBarcode string) *NormalizedFood {
	if p == nil {
		return nil
	}

	name := p.ProductName
	if name == "" {
		name = p.ProductNameEn
	}
	if name == "" {
		return nil
	}

	totalQuantity := resolveTotalQuantity(p)
	servingQuantity := resolveServingQuantity(p)

	reference := totalQuantity
	if reference <= 0 {
		reference = servingQuantity
	}
	unit := utils.ClassifyUnit(p.ProductQuantityUnit, p.ServingSize, reference)

	// 0 means unknown; per-serving facts then fall back to the raw value.
	var servingCount float64
	if totalQuantity > 0 && servingQuantity > 0 {
		servingCount = totalQuantity / servingQuantity
	}

	calories := resolveTotalNutrient(p.Nutriments, "energy-kcal", totalQuantity, servingQuantity, servingCount, unit)
	protein := resolveTotalNutrient(p.Nutriments, "proteins", totalQuantity, servingQuantity, servingCount, unit)
	carb := resolveTotalNutrient(p.Nutriments, "carbohydrates", totalQuantity, servingQuantity, servingCount, unit)
	fat := resolveTotalNutrient(p.Nutriments, "fat", totalQuantity, servingQuantity, servingCount, unit)

	// Never zero: downstream division safety.
	referenceQuantity := 1.0
	if totalQuantity > 0 {
		referenceQuantity = totalQuantity
	} else if servingQuantity > 0 {
		referenceQuantity = servingQuantity
	}

	servings := 1.0
	if servingCount > 0 {
		servings = round2(servingCount)
	}

	barcode := p.Code
	if barcode == "" {
		barcode = fallbackBarcode
	}

	servingQty := servingQuantity
	if servingQty <= 0 {
		servingQty = referenceQuantity
	}

	return &NormalizedFood{
		Name:              name,
		Barcode:           barcode,
		ServingSize:       round2(referenceQuantity),
		ServingUnit:       unit,
		Servings:          servings,
		Calories:          calories,
		Protein:           protein,
		Carb:              carb,
		Fat:               fat,
		DefaultQuantity:   1.0,
		ReferenceQuantity: round2(referenceQuantity),
		ServingQuantity:   round2(servingQty),
		TotalQuantity:     round2(math.Max(totalQuantity, servingQty)),
	}
}

// NormalizeProducts runs a search result list through NormalizeProduct,
// dropping records that fail and preserving source order. limit is
// clamped to 1..20 and applied to the raw list.
func NormalizeProducts(products []Product, limit int) []NormalizedFood {
	if limit < 1 {
		limit = 1
	}
	if limit > 20 {
		limit = 20
	}
	if len(products) > limit {
		products = products[:limit]
	}

	results := make([]NormalizedFood, 0, len(products))
	for i := range products {
		n := NormalizeProduct(&products[i], products[i].Code)
		if n == nil {
			continue
		}
		results = append(results, *n)
	}
	return results
}

func resolveTotalQuantity(p *Product) float64 {
	quantity := utils.ParseNumeric(p.ProductQuantity)
	if quantity > 0 {
		return utils.NormalizeQuantity(quantity, p.ProductQuantityUnit)
	}
	return 0
}

func resolveServingQuantity(p *Product) float64 {
	quantity := utils.ParseNumeric(p.ServingQuantity)
	if quantity > 0 {
		return utils.NormalizeQuantity(quantity, p.ServingQuantityUnit)
	}

	if size, unit, ok := utils.ParseServingSize(p.ServingSize); ok {
		return utils.NormalizeQuantity(size, unit)
	}

	return 0
}

// resolveTotalNutrient derives the absolute amount of one nutrient for
// the whole package. Precedence: per-serving facts scaled by the serving
// count, then the per-100 fact matching the resolved unit, then
// whichever per-100 variant exists, then zero.
func resolveTotalNutrient(nutriments map[string]any, key string, totalQuantity, servingQuantity, servingCount float64, unit string) float64 {
	if v, ok := numericFact(nutriments, key+"_serving"); ok {
		if servingCount > 0 {
			return round2(v * servingCount)
		}
		if totalQuantity > 0 && servingQuantity > 0 {
			return round2(v * (totalQuantity / servingQuantity))
		}
		return round2(v)
	}

	per100Key := key + "_100g"
	if unit == "ml" {
		per100Key = key + "_100ml"
	}
	if v, ok := numericFact(nutriments, per100Key); ok {
		return scalePer100(v, totalQuantity)
	}

	if v, ok := numericFact(nutriments, key+"_100g"); ok {
		return scalePer100(v, totalQuantity)
	}
	if v, ok := numericFact(nutriments, key+"_100ml"); ok {
		return scalePer100(v, totalQuantity)
	}

	return 0
}

func scalePer100(value, totalQuantity float64) float64 {
	if totalQuantity > 0 {
		return round2(value * totalQuantity / 100)
	}
	return round2(value)
}

func numericFact(nutriments map[string]any, key string) (float64, bool) {
	raw, ok := nutriments[key]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if f, err := strconv.ParseFloat(normalized, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
