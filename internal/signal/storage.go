package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumee/lumee-platform/internal/weather"
	"github.com/lumee/lumee-platform/pkg/config"
	"github.com/lumee/lumee-platform/pkg/redis"
)

const (
	// Readings go stale well before this; the TTL only prevents orphaned
	// keys when the agent is down for a long stretch
	readingTTL = 24 * time.Hour

	// Device metadata survives a week of silence before expiring
	deviceMetaTTL = 7 * 24 * time.Hour
)

// Storage handles Redis caching for readings, signals and device metadata
type Storage struct {
	redis            redis.Client
	maxSignalHistory int
	logger           *slog.Logger
}

// NewStorage creates a new storage handler
func NewStorage(redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Storage {
	return &Storage{
		redis:            redisClient,
		maxSignalHistory: cfg.MaxSignalHistory,
		logger:           logger,
	}
}

// StoreReading caches the latest merged environmental reading
func (s *Storage) StoreReading(ctx context.Context, reading *weather.Reading) error {
	jsonData, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := s.redis.Set(ctx, redis.LatestReadingKey(), jsonData, readingTTL); err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}

	return nil
}

// LatestReading returns the cached reading, or nil when none is cached
func (s *Storage) LatestReading(ctx context.Context) (*weather.Reading, error) {
	data, err := s.redis.Get(ctx, redis.LatestReadingKey())
	if err != nil || data == "" {
		return nil, nil
	}

	var reading weather.Reading
	if err := json.Unmarshal([]byte(data), &reading); err != nil {
		return nil, fmt.Errorf("failed to parse cached reading: %w", err)
	}

	return &reading, nil
}

// StoreSignal caches the latest signal for a device and appends it to the
// device's bounded history list (newest first)
func (s *Storage) StoreSignal(ctx context.Context, device string, sig *Signal) error {
	jsonData, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("failed to marshal signal: %w", err)
	}

	if err := s.redis.Set(ctx, redis.LatestSignalKey(device), jsonData, 0); err != nil {
		return fmt.Errorf("failed to store latest signal: %w", err)
	}

	historyKey := redis.SignalHistoryKey(device)
	if err := s.redis.LPush(ctx, historyKey, jsonData); err != nil {
		return fmt.Errorf("failed to push signal history: %w", err)
	}

	if err := s.redis.LTrim(ctx, historyKey, 0, int64(s.maxSignalHistory-1)); err != nil {
		return fmt.Errorf("failed to trim signal history: %w", err)
	}

	return nil
}

// SignalHistory returns up to limit recent signals for a device, newest
// first. Unparseable entries are skipped.
func (s *Storage) SignalHistory(ctx context.Context, device string, limit int64) ([]*Signal, error) {
	entries, err := s.redis.LRange(ctx, redis.SignalHistoryKey(device), 0, limit-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read signal history: %w", err)
	}

	signals := make([]*Signal, 0, len(entries))
	for _, entry := range entries {
		var sig Signal
		if err := json.Unmarshal([]byte(entry), &sig); err != nil {
			s.logger.Warn("Skipping unparseable signal history entry",
				"device", device, "error", err)
			continue
		}
		signals = append(signals, &sig)
	}

	return signals, nil
}

// StoreDevicePresence records presence state and last-seen time for a device
func (s *Storage) StoreDevicePresence(ctx context.Context, device, status string, seenAt time.Time) error {
	key := redis.DeviceMetaKey(device)

	if err := s.redis.HSet(ctx, key, "status", status); err != nil {
		return fmt.Errorf("failed to store device status: %w", err)
	}

	if err := s.redis.HSet(ctx, key, "last_seen", seenAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store device last_seen: %w", err)
	}

	if err := s.redis.Expire(ctx, key, deviceMetaTTL); err != nil {
		return fmt.Errorf("failed to set device meta TTL: %w", err)
	}

	return nil
}
