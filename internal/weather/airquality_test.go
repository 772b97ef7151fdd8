package weather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testClient(baseURL string) *Client {
	c := NewClient("test-key", 5*time.Second, testLogger())
	c.baseURL = baseURL
	return c
}

func TestFetchAirQuality_PrimarySucceeds(t *testing.T) {
	var fallbackCalled bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/data/2.5/") {
			fallbackCalled = true
		}
		w.Write([]byte(`{"list":[{"components":{"pm2_5":22.5,"pm10":48.1}}]}`))
	}))
	defer server.Close()

	air := testClient(server.URL).FetchAirQuality(context.Background(), 37.5665, 126.9780)

	if air == nil {
		t.Fatal("Expected air quality, got nil")
	}
	if air.PM25 != 22.5 {
		t.Errorf("Expected PM2.5 22.5, got %f", air.PM25)
	}
	if air.PM10 != 48.1 {
		t.Errorf("Expected PM10 48.1, got %f", air.PM10)
	}
	if fallbackCalled {
		t.Error("Fallback endpoint called even though primary succeeded")
	}
}

func TestFetchAirQuality_FallsBackToSecondary(t *testing.T) {
	var primaryCalls, fallbackCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/data/3.0/") {
			primaryCalls++
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fallbackCalls++
		w.Write([]byte(`{"list":[{"components":{"pm2_5":12.0,"pm10":30.0}}]}`))
	}))
	defer server.Close()

	air := testClient(server.URL).FetchAirQuality(context.Background(), 37.5665, 126.9780)

	if air == nil {
		t.Fatal("Expected fallback air quality, got nil")
	}
	if air.PM25 != 12.0 || air.PM10 != 30.0 {
		t.Errorf("Expected fallback values, got PM2.5 %f PM10 %f", air.PM25, air.PM10)
	}
	if primaryCalls != 1 || fallbackCalls != 1 {
		t.Errorf("Expected one call each, got primary %d fallback %d", primaryCalls, fallbackCalls)
	}
}

func TestFetchAirQuality_BothFailReturnsNil(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	air := testClient(server.URL).FetchAirQuality(context.Background(), 37.5665, 126.9780)

	if air != nil {
		t.Errorf("Expected nil after both endpoints failed, got %+v", air)
	}
	if calls != 2 {
		t.Errorf("Expected exactly two attempts, got %d", calls)
	}
}

func TestFetchAirQuality_EmptyListTriggersFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/data/3.0/") {
			w.Write([]byte(`{"list":[]}`))
			return
		}
		w.Write([]byte(`{"list":[{"components":{"pm2_5":8.0,"pm10":20.0}}]}`))
	}))
	defer server.Close()

	air := testClient(server.URL).FetchAirQuality(context.Background(), 37.5665, 126.9780)

	if air == nil {
		t.Fatal("Expected fallback to cover empty primary payload")
	}
	if air.PM25 != 8.0 {
		t.Errorf("Expected PM2.5 8.0, got %f", air.PM25)
	}
}

func TestCurrentConditions_ParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("Expected metric units, got %q", r.URL.Query().Get("units"))
		}
		w.Write([]byte(`{"current":{"temp":21.3,"feels_like":20.8,"humidity":55,"uvi":4.2,"clouds":40,"weather":[{"main":"Rain"}],"rain":{"1h":1.5}}}`))
	}))
	defer server.Close()

	current, err := testClient(server.URL).CurrentConditions(context.Background(), 37.5665, 126.9780)
	if err != nil {
		t.Fatalf("CurrentConditions failed: %v", err)
	}

	if current.Temperature != 21.3 {
		t.Errorf("Expected temperature 21.3, got %f", current.Temperature)
	}
	if current.Condition != ConditionRain {
		t.Errorf("Expected Rain condition, got %s", current.Condition)
	}
	if current.RainRate != 1.5 {
		t.Errorf("Expected rain rate 1.5, got %f", current.RainRate)
	}
}

func TestAirLevel_Bands(t *testing.T) {
	tests := []struct {
		pm25  float64
		level string
	}{
		{0, "Good"},
		{15, "Good"},
		{15.1, "Moderate"},
		{35, "Moderate"},
		{36, "Poor"},
		{75, "Poor"},
		{76, "Very Poor"},
	}

	for _, tt := range tests {
		if got := AirLevel(tt.pm25); got != tt.level {
			t.Errorf("PM2.5 %.1f: expected %s, got %s", tt.pm25, tt.level, got)
		}
	}
}
