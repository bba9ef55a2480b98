// Package collectapi provides an API client for the CollectAPI gas price service.
package collectapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelwatch/gaspricebot/internal/prices"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = "collectapi"
	// baseURL is the API endpoint for US state gas prices.
	baseURL = "https://api.collectapi.com/gasPrice/stateUsaPrice"
	// userAgent identifies the bot to the API.
	userAgent = "gaspricebot/1.0"
)

// apiResponse represents the JSON response from the CollectAPI endpoint.
type apiResponse struct {
	Success bool   `json:"success"`
	Result  result `json:"result"`
}

// result carries the per-fuel prices. CollectAPI returns prices as strings.
type result struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Gasoline string `json:"gasoline"`
	MidGrade string `json:"midGrade"`
	Premium  string `json:"premium"`
	Diesel   string `json:"diesel"`
}

// Provider implements prices.Provider against the CollectAPI gas price service.
type Provider struct {
	client *http.Client
	apiKey string
	logger zerolog.Logger
}

// New creates a new CollectAPI provider.
func New(apiKey string, logger zerolog.Logger) *Provider {
	return &Provider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey: apiKey,
		logger: logger.With().Str("provider", ProviderName).Logger(),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// Fetch fetches current prices for the given area from CollectAPI.
func (p *Provider) Fetch(ctx context.Context, area string) (prices.Quote, error) {
	apiURL := fmt.Sprintf("%s?state=%s", baseURL, url.QueryEscape(area))

	p.logger.Debug().
		Str("url", apiURL).
		Str("area", area).
		Msg("fetching prices from CollectAPI")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return prices.Quote{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "apikey "+p.apiKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return prices.Quote{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return prices.Quote{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return prices.Quote{}, fmt.Errorf("parsing response JSON: %w", err)
	}

	if !apiResp.Success {
		return prices.Quote{}, fmt.Errorf("api reported failure for area %s", area)
	}

	raw := map[prices.FuelType]string{
		prices.FuelRegular:  apiResp.Result.Gasoline,
		prices.FuelMidGrade: apiResp.Result.MidGrade,
		prices.FuelPremium:  apiResp.Result.Premium,
		prices.FuelDiesel:   apiResp.Result.Diesel,
	}

	out := make(map[prices.FuelType]float64, len(raw))
	for fuel, s := range raw {
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return prices.Quote{}, fmt.Errorf("parsing %s price %q: %w", fuel, s, err)
		}
		if v < 0 {
			return prices.Quote{}, fmt.Errorf("negative %s price %v", fuel, v)
		}
		out[fuel] = v
	}

	if len(out) == 0 {
		return prices.Quote{}, fmt.Errorf("no prices returned for area %s", area)
	}

	p.logger.Info().
		Str("area", area).
		Int("count", len(out)).
		Msg("fetched prices from CollectAPI")

	return prices.Quote{
		Area:      area,
		Prices:    out,
		FetchedAt: time.Now(),
	}, nil
}
