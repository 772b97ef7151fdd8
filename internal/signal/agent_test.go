package signal

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lumee/lumee-platform/internal/profile"
	"github.com/lumee/lumee-platform/internal/weather"
	"github.com/lumee/lumee-platform/pkg/config"
	"github.com/lumee/lumee-platform/pkg/devices"
	"github.com/lumee/lumee-platform/pkg/mqtt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Mock MQTT client that records published messages
type mockMQTT struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newMockMQTT() *mockMQTT {
	return &mockMQTT{published: make(map[string][][]byte)}
}

func (m *mockMQTT) Connect(ctx context.Context) error { return nil }
func (m *mockMQTT) Disconnect()                       {}
func (m *mockMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	return nil
}
func (m *mockMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[topic] = append(m.published[topic], payload)
	return nil
}
func (m *mockMQTT) IsConnected() bool { return true }

func (m *mockMQTT) last(topic string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.published[topic]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// Mock Redis client backed by maps
type mockRedis struct {
	mu     sync.Mutex
	values map[string]string
	hashes map[string]map[string]string
	lists  map[string][]string
}

func newMockRedis() *mockRedis {
	return &mockRedis{
		values: make(map[string]string),
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][]string),
	}
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = stringify(value)
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *mockRedis) HSet(ctx context.Context, key string, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hashes[key] == nil {
		m.hashes[key] = make(map[string]string)
	}
	m.hashes[key][field] = stringify(value)
	return nil
}

func (m *mockRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashes[key], nil
}

func (m *mockRedis) LPush(ctx context.Context, key string, values ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		m.lists[key] = append([]string{stringify(v)}, m.lists[key]...)
	}
	return nil
}

func (m *mockRedis) LTrim(ctx context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		m.lists[key] = nil
		return nil
	}
	m.lists[key] = list[start : stop+1]
	return nil
}

func (m *mockRedis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		return nil, nil
	}
	return list[start : stop+1], nil
}

func (m *mockRedis) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }
func (m *mockRedis) Ping(ctx context.Context) error                                  { return nil }
func (m *mockRedis) Close() error                                                    { return nil }

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		data, _ := json.Marshal(v)
		return string(data)
	}
}

// Mock fetcher with a fixed reading
type mockFetcher struct {
	reading *weather.Reading
}

func (m *mockFetcher) FetchReading(ctx context.Context, lat, lon float64) *weather.Reading {
	return m.reading
}

// Mock profile store keyed by name
type mockProfiles struct {
	profiles map[string]*profile.Profile
}

func (m *mockProfiles) GetProfile(ctx context.Context, name string) (*profile.Profile, error) {
	if p, ok := m.profiles[name]; ok {
		return p, nil
	}
	return profile.GuestProfile(), nil
}

func testAgent(reading *weather.Reading, registry *devices.Registry, profiles map[string]*profile.Profile) (*Agent, *mockMQTT, *mockRedis) {
	cfg := config.NewConfig()
	cfg.NightDimming = false

	mqttClient := newMockMQTT()
	redisClient := newMockRedis()

	agent := NewAgent(
		mqttClient,
		redisClient,
		&mockFetcher{reading: reading},
		&mockProfiles{profiles: profiles},
		registry,
		nil,
		cfg,
		testLogger(),
	)

	return agent, mqttClient, redisClient
}

func TestEvaluate_PublishesCommandAndContext(t *testing.T) {
	reading := &weather.Reading{
		Temperature:     20,
		FeelsLike:       20,
		PM25:            90,
		HumidityPercent: 50,
		Condition:       weather.ConditionClear,
	}

	registry := &devices.Registry{
		Devices: []devices.Device{{Name: "livingroom-lamp", HasSpeaker: true}},
	}

	agent, mqttClient, redisClient := testAgent(reading, registry, nil)

	agent.evaluate(context.Background())

	commandPayload := mqttClient.last("lumee/command/indicator/livingroom-lamp")
	if commandPayload == nil {
		t.Fatal("No command published")
	}

	var command map[string]interface{}
	if err := json.Unmarshal(commandPayload, &command); err != nil {
		t.Fatalf("Command is not valid JSON: %v", err)
	}
	if command["r"] != float64(148) || command["effect"] != "slow_blink" {
		t.Errorf("Unexpected command payload: %s", commandPayload)
	}
	if command["sound"] != float64(3) {
		t.Errorf("Expected dust alarm sound, got %v", command["sound"])
	}
	if command["id"] == "" || command["id"] == nil {
		t.Error("Command missing message id")
	}
	if command["brightness"] != float64(100) {
		t.Errorf("Expected brightness 100 with dimming off, got %v", command["brightness"])
	}

	contextPayload := mqttClient.last("lumee/context/signal/livingroom-lamp")
	if contextPayload == nil {
		t.Fatal("No context message published")
	}

	var contextMsg map[string]interface{}
	if err := json.Unmarshal(contextPayload, &contextMsg); err != nil {
		t.Fatalf("Context is not valid JSON: %v", err)
	}
	if contextMsg["category"] != "particulate" {
		t.Errorf("Expected particulate category, got %v", contextMsg["category"])
	}
	if contextMsg["air_level"] != "Very Poor" {
		t.Errorf("Expected Very Poor air level, got %v", contextMsg["air_level"])
	}
	if contextMsg["id"] != command["id"] {
		t.Error("Command and context ids differ")
	}

	// Reading and signal are cached
	if cached, _ := redisClient.Get(context.Background(), "environment:reading:latest"); cached == "" {
		t.Error("Reading not cached")
	}
	if cached, _ := redisClient.Get(context.Background(), "signal:latest:livingroom-lamp"); cached == "" {
		t.Error("Signal not cached")
	}
	if history := redisClient.lists["signal:history:livingroom-lamp"]; len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestEvaluate_SpeakerlessDeviceGetsNoSound(t *testing.T) {
	reading := &weather.Reading{FeelsLike: 36, Temperature: 33, HumidityPercent: 50}

	registry := &devices.Registry{
		Devices: []devices.Device{{Name: "desk-lamp", HasSpeaker: false}},
	}

	agent, mqttClient, _ := testAgent(reading, registry, nil)

	agent.evaluate(context.Background())

	var command map[string]interface{}
	if err := json.Unmarshal(mqttClient.last("lumee/command/indicator/desk-lamp"), &command); err != nil {
		t.Fatalf("Command is not valid JSON: %v", err)
	}

	if _, present := command["sound"]; present {
		t.Errorf("Speakerless device got a sound: %s", mqttClient.last("lumee/command/indicator/desk-lamp"))
	}
}

func TestEvaluate_SensitivityBoostPerDevice(t *testing.T) {
	reading := &weather.Reading{
		Temperature:     20,
		FeelsLike:       20,
		PM25:            50,
		HumidityPercent: 50,
	}

	registry := &devices.Registry{
		Devices: []devices.Device{
			{Name: "dahee-lamp", Owner: "dahee"},
			{Name: "shared-lamp"},
		},
	}

	profiles := map[string]*profile.Profile{
		"dahee": {
			Name:             "dahee",
			SensitiveFactors: []profile.Sensitivity{profile.SensitivityRespiratory},
		},
	}

	agent, mqttClient, _ := testAgent(reading, registry, profiles)

	agent.evaluate(context.Background())

	var owned, shared map[string]interface{}
	if err := json.Unmarshal(mqttClient.last("lumee/command/indicator/dahee-lamp"), &owned); err != nil {
		t.Fatalf("Owned command unparseable: %v", err)
	}
	if err := json.Unmarshal(mqttClient.last("lumee/command/indicator/shared-lamp"), &shared); err != nil {
		t.Fatalf("Shared command unparseable: %v", err)
	}

	// Dimming is off, so both sit at the 100 cap; the cached signals keep
	// the distinct boosts
	cached, _ := agent.storage.SignalHistory(context.Background(), "dahee-lamp", 1)
	if len(cached) != 1 || cached[0].BrightnessBoost != 30 {
		t.Errorf("Expected cached boost 30 for owner device, got %+v", cached)
	}

	cachedShared, _ := agent.storage.SignalHistory(context.Background(), "shared-lamp", 1)
	if len(cachedShared) != 1 || cachedShared[0].BrightnessBoost != 0 {
		t.Errorf("Expected no boost for shared device, got %+v", cachedShared)
	}
}

func TestEvaluate_HistoryBounded(t *testing.T) {
	reading := &weather.Reading{Temperature: 20, FeelsLike: 20, HumidityPercent: 50}
	registry := &devices.Registry{Devices: []devices.Device{{Name: "lamp"}}}

	cfg := config.NewConfig()
	cfg.NightDimming = false
	cfg.MaxSignalHistory = 3

	redisClient := newMockRedis()
	agent := NewAgent(
		newMockMQTT(),
		redisClient,
		&mockFetcher{reading: reading},
		&mockProfiles{},
		registry,
		nil,
		cfg,
		testLogger(),
	)

	for i := 0; i < 5; i++ {
		agent.evaluate(context.Background())
	}

	if history := redisClient.lists["signal:history:lamp"]; len(history) != 3 {
		t.Errorf("Expected history trimmed to 3, got %d", len(history))
	}
}

// Mock MQTT message for presence handling
type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Topic() string   { return m.topic }
func (m *mockMessage) Payload() []byte { return m.payload }

func TestHandlePresenceMessage(t *testing.T) {
	registry := &devices.Registry{Devices: []devices.Device{{Name: "lamp"}}}
	agent, _, redisClient := testAgent(&weather.Reading{}, registry, nil)

	agent.handlePresenceMessage(&mockMessage{
		topic:   "lumee/presence/lamp",
		payload: []byte("online"),
	})

	meta, _ := redisClient.HGetAll(context.Background(), "device:meta:lamp")
	if meta["status"] != "online" {
		t.Errorf("Expected status online, got %q", meta["status"])
	}
	if meta["last_seen"] == "" {
		t.Error("last_seen not recorded")
	}
}

func TestHandlePresenceMessage_MalformedTopicIgnored(t *testing.T) {
	registry := &devices.Registry{Devices: []devices.Device{{Name: "lamp"}}}
	agent, _, redisClient := testAgent(&weather.Reading{}, registry, nil)

	agent.handlePresenceMessage(&mockMessage{topic: "lumee", payload: []byte("online")})

	if len(redisClient.hashes) != 0 {
		t.Errorf("Malformed topic stored metadata: %+v", redisClient.hashes)
	}
}
