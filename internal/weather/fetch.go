package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Fetcher assembles the merged environmental reading from the independent
// capability fetches (base weather, air quality, pollen)
type Fetcher struct {
	weather *Client
	pollen  *PollenClient
	logger  *slog.Logger
}

// NewFetcher creates a new reading fetcher
func NewFetcher(weatherClient *Client, pollenClient *PollenClient, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		weather: weatherClient,
		pollen:  pollenClient,
		logger:  logger,
	}
}

// FetchReading issues the three capability fetches concurrently and merges
// the results into one Reading. A failed source contributes its zero-value
// fields; the returned reading is always usable by the classification
// engine. Ozone stays zero until the pollution provider exposes it on the
// endpoints we consume.
func (f *Fetcher) FetchReading(ctx context.Context, lat, lon float64) *Reading {
	var (
		wg      sync.WaitGroup
		current *Current
		air     *AirQuality
		pollen  *PollenObservation
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		c, err := f.weather.CurrentConditions(ctx, lat, lon)
		if err != nil {
			f.logger.Error("Base weather fetch failed", "error", err)
			return
		}
		current = c
	}()

	go func() {
		defer wg.Done()
		air = f.weather.FetchAirQuality(ctx, lat, lon)
	}()

	go func() {
		defer wg.Done()
		pollen = f.pollen.FetchDominantPollen(ctx, lat, lon)
	}()

	wg.Wait()

	reading := &Reading{
		FetchedAt: time.Now(),
	}

	if current != nil {
		reading.Temperature = current.Temperature
		reading.FeelsLike = current.FeelsLike
		reading.HumidityPercent = current.HumidityPercent
		reading.UVIndex = current.UVIndex
		reading.CloudCoverPercent = current.CloudCoverPercent
		reading.Condition = current.Condition
		reading.PrecipitationRate = current.RainRate
	}

	if air != nil {
		reading.PM25 = air.PM25
		reading.PM10 = air.PM10
	}

	if pollen != nil {
		reading.PollenIndex = float64(pollen.Value)
	}

	f.logger.Debug("Merged environmental reading",
		"temperature", reading.Temperature,
		"feels_like", reading.FeelsLike,
		"pm25", reading.PM25,
		"pm10", reading.PM10,
		"condition", reading.Condition,
		"base_weather_ok", current != nil,
		"air_quality_ok", air != nil,
		"pollen_ok", pollen != nil)

	return reading
}
