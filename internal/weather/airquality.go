package weather

import (
	"context"
)

// FetchAirQuality fetches particulate readings with versioned-endpoint
// fallback: the v3.0 endpoint is attempted first, and on any failure
// (network error, non-2xx, malformed payload, timeout) the v2.5 endpoint is
// tried once with the same coordinates. Exactly two attempts, no backoff.
//
// Returns nil after both endpoints fail. Failures never propagate to the
// caller; the rest of the pipeline runs with an absent air quality signal.
func (c *Client) FetchAirQuality(ctx context.Context, lat, lon float64) *AirQuality {
	air, err := c.airQuality(ctx, "3.0", lat, lon)
	if err == nil {
		return air
	}

	c.logger.Warn("Primary air pollution endpoint failed, falling back",
		"version", "3.0",
		"error", err)

	air, fallbackErr := c.airQuality(ctx, "2.5", lat, lon)
	if fallbackErr == nil {
		return air
	}

	c.logger.Error("Air pollution fetch failed on both endpoints",
		"primary_error", err,
		"fallback_error", fallbackErr)

	return nil
}
