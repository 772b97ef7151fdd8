package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const openWeatherBaseURL = "https://api.openweathermap.org"

// Client fetches base weather and air pollution data from OpenWeather
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new OpenWeather client
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// oneCallResponse mirrors the subset of the one-call payload we consume
type oneCallResponse struct {
	Current struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		UVI       float64 `json:"uvi"`
		Clouds    float64 `json:"clouds"`
		Weather   []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Rain struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
	} `json:"current"`
}

// CurrentConditions fetches the current weather snapshot for the coordinates
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (*Current, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(lat))
	query.Set("lon", formatCoord(lon))
	query.Set("exclude", "minutely,hourly,daily,alerts")
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)

	endpoint := fmt.Sprintf("%s/data/3.0/onecall?%s", c.baseURL, query.Encode())

	var payload oneCallResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("one-call request failed: %w", err)
	}

	current := &Current{
		Temperature:       payload.Current.Temp,
		FeelsLike:         payload.Current.FeelsLike,
		HumidityPercent:   payload.Current.Humidity,
		UVIndex:           payload.Current.UVI,
		CloudCoverPercent: payload.Current.Clouds,
		RainRate:          payload.Current.Rain.OneHour,
	}
	if len(payload.Current.Weather) > 0 {
		current.Condition = Condition(payload.Current.Weather[0].Main)
	}

	return current, nil
}

// airPollutionResponse mirrors the air pollution payload (same shape for
// the v3.0 and v2.5 endpoints)
type airPollutionResponse struct {
	List []struct {
		Components struct {
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
		} `json:"components"`
	} `json:"list"`
}

// airQuality performs a single air pollution request against one versioned
// endpoint. version is "3.0" or "2.5".
func (c *Client) airQuality(ctx context.Context, version string, lat, lon float64) (*AirQuality, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(lat))
	query.Set("lon", formatCoord(lon))
	query.Set("appid", c.apiKey)

	endpoint := fmt.Sprintf("%s/data/%s/air_pollution?%s", c.baseURL, version, query.Encode())

	var payload airPollutionResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("air pollution v%s request failed: %w", version, err)
	}

	if len(payload.List) == 0 {
		return nil, fmt.Errorf("air pollution v%s response has empty list", version)
	}

	return &AirQuality{
		PM25: payload.List[0].Components.PM25,
		PM10: payload.List[0].Components.PM10,
	}, nil
}

// getJSON performs a GET request and decodes the JSON body into target
func (c *Client) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeJSON(r io.Reader, target interface{}) error {
	return json.NewDecoder(r).Decode(target)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
