package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumee/lumee-platform/internal/profile"
	"github.com/lumee/lumee-platform/internal/schedule"
	"github.com/lumee/lumee-platform/internal/weather"
	"github.com/lumee/lumee-platform/pkg/config"
	"github.com/lumee/lumee-platform/pkg/devices"
	"github.com/lumee/lumee-platform/pkg/mqtt"
	"github.com/lumee/lumee-platform/pkg/redis"
)

// ReadingFetcher produces the merged environmental reading the
// classification runs on
type ReadingFetcher interface {
	FetchReading(ctx context.Context, lat, lon float64) *weather.Reading
}

// Agent represents the signal agent: it periodically fetches environmental
// conditions, classifies them into an actuation signal, personalizes the
// signal per indicator device and publishes firmware commands plus a
// richer context message.
type Agent struct {
	mqtt      mqtt.Client
	redis     redis.Client
	cfg       *config.Config
	logger    *slog.Logger
	fetcher   ReadingFetcher
	profiles  profile.Store
	registry  *devices.Registry
	storage   *Storage
	extractor *schedule.Extractor

	// Periodic evaluation loop
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewAgent creates a new signal agent. The extractor is optional; without
// it schedule entries are matched with their raw locations only.
func NewAgent(mqttClient mqtt.Client, redisClient redis.Client, fetcher ReadingFetcher, profiles profile.Store, registry *devices.Registry, extractor *schedule.Extractor, cfg *config.Config, logger *slog.Logger) *Agent {
	return &Agent{
		mqtt:      mqttClient,
		redis:     redisClient,
		cfg:       cfg,
		logger:    logger,
		fetcher:   fetcher,
		profiles:  profiles,
		registry:  registry,
		storage:   NewStorage(redisClient, cfg, logger),
		extractor: extractor,
		stopChan:  make(chan struct{}),
	}
}

// Start starts the signal agent and begins periodic evaluation
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting signal agent",
		"service_name", a.cfg.ServiceName,
		"fetch_interval_sec", a.cfg.FetchIntervalSec,
		"devices", len(a.registry.Devices))

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Verify Redis connection
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	// Subscribe to device presence announcements
	if err := a.mqtt.Subscribe(mqtt.TopicPresence, 0, a.handlePresenceMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicPresence, err)
	}
	a.logger.Info("Subscribed to device presence", "topic", mqtt.TopicPresence)

	// Start periodic evaluation loop
	a.startPeriodicEvaluation()

	// First evaluation right away so devices don't sit dark until the
	// first tick
	go a.evaluate(context.Background())

	a.logger.Info("Signal agent started and ready")

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Signal agent stopping")

	return nil
}

// Stop gracefully stops the signal agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping signal agent")

	if a.ticker != nil {
		a.ticker.Stop()
	}
	close(a.stopChan)

	// Disconnect from MQTT
	a.mqtt.Disconnect()

	// Close Redis connection
	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Signal agent stopped")
	return nil
}

// startPeriodicEvaluation starts the fetch/classify/publish cycle
func (a *Agent) startPeriodicEvaluation() {
	interval := time.Duration(a.cfg.FetchIntervalSec) * time.Second
	a.ticker = time.NewTicker(interval)

	go func() {
		a.logger.Info("Starting periodic evaluation loop", "interval_sec", a.cfg.FetchIntervalSec)
		for {
			select {
			case <-a.ticker.C:
				a.evaluate(context.Background())
			case <-a.stopChan:
				return
			}
		}
	}()
}

// evaluate runs one full pipeline cycle: fetch, classify, personalize and
// publish for every registered device
func (a *Agent) evaluate(ctx context.Context) {
	reading := a.fetcher.FetchReading(ctx, a.cfg.Latitude, a.cfg.Longitude)

	if err := a.storage.StoreReading(ctx, reading); err != nil {
		a.logger.Error("Failed to cache reading", "error", err)
	}

	base := ClassifyWithLog(reading, a.logger)

	a.logger.Info("Classified environmental reading",
		"category", base.Category,
		"priority", base.Priority,
		"temperature", reading.Temperature,
		"pm25", reading.PM25)

	now := time.Now()
	for _, device := range a.registry.Devices {
		a.publishForDevice(ctx, device, base, reading, now)
	}
}

// publishForDevice personalizes the base signal for one device and
// publishes both the firmware command and the context message
func (a *Agent) publishForDevice(ctx context.Context, device devices.Device, base *Signal, reading *weather.Reading, now time.Time) {
	prof, err := a.profiles.GetProfile(ctx, device.Owner)
	if err != nil {
		a.logger.Error("Profile lookup failed, falling back to guest",
			"device", device.Name, "owner", device.Owner, "error", err)
		prof = profile.GuestProfile()
	}

	sig := AdjustForUser(base, prof)

	// Devices without a speaker never receive a sound id
	if !device.HasSpeaker {
		sig.SoundID = 0
	}

	brightness := a.brightness(sig, now)
	messageID := uuid.New().String()

	if err := a.publishCommand(device.Name, sig, brightness, messageID, now); err != nil {
		a.logger.Error("Failed to publish indicator command",
			"device", device.Name, "error", err)
		return
	}

	if err := a.publishContext(device.Name, sig, reading, prof, messageID, now); err != nil {
		a.logger.Error("Failed to publish signal context",
			"device", device.Name, "error", err)
	}

	if err := a.storage.StoreSignal(ctx, device.Name, sig); err != nil {
		a.logger.Error("Failed to cache signal", "device", device.Name, "error", err)
	}

	a.logger.Debug("Published signal",
		"device", device.Name,
		"user", prof.Name,
		"category", sig.Category,
		"brightness", brightness,
		"boost", sig.BrightnessBoost)
}

// brightness resolves the output brightness for a signal, following the
// sun when night dimming is enabled
func (a *Agent) brightness(sig *Signal, now time.Time) int {
	if !a.cfg.NightDimming {
		b := brightnessDay + sig.BrightnessBoost
		if b > 100 {
			b = 100
		}
		return b
	}
	return EffectiveBrightness(sig, now, a.cfg.Latitude, a.cfg.Longitude)
}

// commandMessage is what the firmware bridge receives: the flat wire
// payload plus delivery metadata
type commandMessage struct {
	FirmwarePayload
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	Brightness int    `json:"brightness"`
}

func (a *Agent) publishCommand(device string, sig *Signal, brightness int, messageID string, now time.Time) error {
	msg := commandMessage{
		FirmwarePayload: FirmwarePayloadFor(sig),
		ID:              messageID,
		Timestamp:       now.UnixMilli(),
		Brightness:      brightness,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	return a.mqtt.Publish(mqtt.CommandTopic(device), 0, false, payload)
}

// contextMessage carries the full signal for dashboards and the
// conversational layer
type contextMessage struct {
	ID        string           `json:"id"`
	Device    string           `json:"device"`
	User      string           `json:"user"`
	Timestamp int64            `json:"timestamp"`
	Category  Category         `json:"category"`
	Priority  int              `json:"priority"`
	Message   string           `json:"message"`
	Reading   *weather.Reading `json:"reading"`
	Schedule  *schedule.Match  `json:"schedule,omitempty"`
	AirLevel  string           `json:"air_level"`
}

func (a *Agent) publishContext(device string, sig *Signal, reading *weather.Reading, prof *profile.Profile, messageID string, now time.Time) error {
	msg := contextMessage{
		ID:        messageID,
		Device:    device,
		User:      prof.Name,
		Timestamp: now.UnixMilli(),
		Category:  sig.Category,
		Priority:  sig.Priority,
		Message:   sig.Message,
		Reading:   reading,
		AirLevel:  weather.AirLevel(reading.PM25),
	}

	// Attach today's schedule entry when the owner has one with a location
	entries := prof.Schedule
	if a.extractor != nil && needsResolution(entries) {
		entries = a.extractor.ResolveLocations(context.Background(), entries)
	}
	if matches := schedule.FindEntriesForDate(entries, now, a.logger); len(matches) > 0 {
		msg.Schedule = &matches[0]
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	return a.mqtt.Publish(mqtt.ContextTopic(device), 0, false, payload)
}

// needsResolution reports whether any entry still lacks a forecast-ready
// location
func needsResolution(entries []schedule.Entry) bool {
	for _, e := range entries {
		if e.ResolvedLocation == "" && e.RawLocation != "" {
			return true
		}
	}
	return false
}

// handlePresenceMessage records device liveness announced by firmware
// bridges on lumee/presence/{device}
func (a *Agent) handlePresenceMessage(msg mqtt.Message) {
	parts := strings.Split(msg.Topic(), "/")
	if len(parts) < 3 {
		a.logger.Warn("Ignoring presence message with malformed topic", "topic", msg.Topic())
		return
	}
	device := parts[len(parts)-1]

	status := strings.TrimSpace(string(msg.Payload()))
	if status == "" {
		status = "online"
	}

	ctx := context.Background()
	if err := a.storage.StoreDevicePresence(ctx, device, status, time.Now()); err != nil {
		a.logger.Error("Failed to store device presence", "device", device, "error", err)
		return
	}

	a.logger.Debug("Device presence updated", "device", device, "status", status)
}
