package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const pollenBaseURL = "https://pollen.googleapis.com"

// PollenClient fetches pollen forecasts from the Google Pollen API
type PollenClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPollenClient creates a new pollen forecast client
func NewPollenClient(apiKey string, timeout time.Duration, logger *slog.Logger) *PollenClient {
	return &PollenClient{
		apiKey:  apiKey,
		baseURL: pollenBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// PollenForecast mirrors the forecast:lookup response
type PollenForecast struct {
	DailyInfo []PollenDay `json:"dailyInfo"`
}

// PollenDay holds the per-type pollen entries for one forecast day
type PollenDay struct {
	PollenTypeInfo []PollenType `json:"pollenTypeInfo"`
}

// PollenType is one pollen type entry. IndexInfo and InSeason are optional
// in the provider payload; an out-of-season type often carries neither.
type PollenType struct {
	Code        string       `json:"code"`
	DisplayName string       `json:"displayName"`
	IndexInfo   *PollenIndex `json:"indexInfo,omitempty"`
	InSeason    *bool        `json:"inSeason,omitempty"`
}

// PollenIndex is the UPI severity sub-structure
type PollenIndex struct {
	Value    int    `json:"value"`
	Category string `json:"category"`
}

// severity returns the UPI value of a type, defaulting a missing IndexInfo
// to zero so comparisons are always defined
func (t PollenType) severity() int {
	if t.IndexInfo == nil {
		return 0
	}
	return t.IndexInfo.Value
}

// FetchDominantPollen fetches today's forecast and reduces it to the single
// highest-severity pollen type. Returns nil when the provider call fails or
// the response has no usable entries; failures never propagate.
func (c *PollenClient) FetchDominantPollen(ctx context.Context, lat, lon float64) *PollenObservation {
	forecast, err := c.forecast(ctx, lat, lon)
	if err != nil {
		c.logger.Error("Pollen forecast fetch failed", "error", err)
		return nil
	}

	observation := SelectDominantPollen(forecast)
	if observation == nil {
		c.logger.Warn("Pollen forecast has no usable entries")
	}
	return observation
}

// SelectDominantPollen reduces a forecast response to the highest-severity
// pollen type of the first day. Ties keep the first entry in provider
// order. A selected entry without an IndexInfo gets the explicit
// low-severity defaults (value 0, category "Very low", in season) rather
// than being treated as a failure.
func SelectDominantPollen(forecast *PollenForecast) *PollenObservation {
	if forecast == nil || len(forecast.DailyInfo) == 0 {
		return nil
	}

	types := forecast.DailyInfo[0].PollenTypeInfo
	if len(types) == 0 {
		return nil
	}

	top := types[0]
	for _, t := range types[1:] {
		if t.severity() > top.severity() {
			top = t
		}
	}

	observation := &PollenObservation{
		Type:       top.Code,
		Value:      0,
		Category:   "Very low",
		InSeason:   true,
		ObservedAt: time.Now(),
	}
	if top.IndexInfo != nil {
		observation.Value = top.IndexInfo.Value
		observation.Category = top.IndexInfo.Category
	}
	if top.InSeason != nil {
		observation.InSeason = *top.InSeason
	}

	return observation
}

// forecast performs the forecast:lookup request for one day
func (c *PollenClient) forecast(ctx context.Context, lat, lon float64) (*PollenForecast, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("location.latitude", formatCoord(lat))
	query.Set("location.longitude", formatCoord(lon))
	query.Set("days", "1")

	endpoint := fmt.Sprintf("%s/v1/forecast:lookup?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pollen provider returned status %d", resp.StatusCode)
	}

	var forecast PollenForecast
	if err := decodeJSON(resp.Body, &forecast); err != nil {
		return nil, fmt.Errorf("failed to decode pollen response: %w", err)
	}

	return &forecast, nil
}
