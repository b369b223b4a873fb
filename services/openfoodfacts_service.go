package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultLookupEndpoint = "https://world.openfoodfacts.org/api/v2/product"
	defaultSearchEndpoint = "https://world.openfoodfacts.org/api/v2/search"

	lookupFields = "product_name,serving_size,serving_quantity,product_quantity,product_quantity_unit,nutriments"
	searchFields = "code,product_name,product_name_en,serving_size,serving_quantity,product_quantity,product_quantity_unit,nutriments"
)

// Product is a raw record from the nutrition provider. Quantity fields
// arrive as numbers or strings depending on the source, so they stay
// untyped until normalization. Nutriment keys carry "_serving",
// "_100g" or "_100ml" suffixes.
type Product struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	ProductNameEn       string         `json:"product_name_en"`
	ServingSize         string         `json:"serving_size"`
	ServingQuantity     any            `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	ProductQuantity     any            `json:"product_quantity"`
	ProductQuantityUnit string         `json:"product_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

type OpenFoodFactsService struct {
	endpoint       string
	searchEndpoint string
	apiKey         string
	keyHeader      string
	language       string
	country        string
	client         *http.Client
}

// NewOpenFoodFactsService reads provider settings from the environment,
// defaulting to the public Open Food Facts API.
func NewOpenFoodFactsService() *OpenFoodFactsService {
	return &OpenFoodFactsService{
		endpoint:       envOrDefault("NUTRITION_API_URL", defaultLookupEndpoint),
		searchEndpoint: envOrDefault("NUTRITION_SEARCH_API_URL", defaultSearchEndpoint),
		apiKey:         os.Getenv("NUTRITION_API_KEY"),
		keyHeader:      envOrDefault("NUTRITION_API_KEY_HEADER", "Authorization"),
		language:       envOrDefault("NUTRITION_API_LANGUAGE", "en"),
		country:        envOrDefault("NUTRITION_API_COUNTRY", "us"),
		client:         &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchByBarcode returns the raw product for a barcode, or nil when the
// provider has no match. Callers treat errors and a nil product the same
// way: not found.
func (s *OpenFoodFactsService) FetchByBarcode(barcode string) (*Product, error) {
	if s.endpoint == "" {
		return nil, nil
	}

	u := fmt.Sprintf("%s/%s.json?fields=%s",
		strings.TrimRight(s.endpoint, "/"),
		url.PathEscape(barcode),
		url.QueryEscape(lookupFields),
	)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition API error %d: %s", resp.StatusCode, string(body))
	}

	var lr struct {
		Product *Product `json:"product"`
	}
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse lookup JSON: %w", err)
	}

	return lr.Product, nil
}

// SearchByText queries the provider's free-text search and returns the
// raw products in source order. limit maps to the provider's page size.
func (s *OpenFoodFactsService) SearchByText(query string, limit int) ([]Product, error) {
	u, err := url.Parse(s.searchEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}

	params := u.Query()
	params.Set("search_terms", query)
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("fields", searchFields)
	params.Set("lc", s.language)
	params.Set("cc", s.country)
	u.RawQuery = params.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	s.decorate(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutrition search API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nutrition search API error %d: %s", resp.StatusCode, string(body))
	}

	var sr struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}

	return sr.Products, nil
}

func (s *OpenFoodFactsService) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tracker (calorie tracker backend)")

	if s.apiKey == "" {
		return
	}
	if s.keyHeader == "Authorization" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		return
	}
	req.Header.Set(s.keyHeader, s.apiKey)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
