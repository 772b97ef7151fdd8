package devices

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Device describes one physical indicator on the MQTT fleet
type Device struct {
	Name       string `yaml:"name"`    // MQTT topic segment, e.g. "livingroom-lamp"
	Owner      string `yaml:"owner"`   // Profile name the device personalizes for, empty for shared devices
	MaxLED     int    `yaml:"max_led"` // Number of addressable LEDs, informational
	HasSpeaker bool   `yaml:"has_speaker"`
}

// Registry is the immutable set of indicator devices and the sound table,
// loaded once at startup
type Registry struct {
	Devices []Device       `yaml:"devices"`
	Sounds  map[int]string `yaml:"sounds"` // sound id -> firmware sample name
}

// Default registry used when no devices file is configured: a single shared
// indicator with the firmware's factory sound bank.
func DefaultRegistry() *Registry {
	return &Registry{
		Devices: []Device{
			{Name: "lumee-lamp", MaxLED: 24, HasSpeaker: true},
		},
		Sounds: map[int]string{
			1: "alarm_heat",
			2: "alarm_cold",
			3: "alarm_dust",
			4: "thunder",
			5: "heavy_rain",
		},
	}
}

// Load loads a device registry from a YAML file
func Load(filepath string) (*Registry, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read devices file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads a device registry from byte data (useful for testing)
func LoadFromBytes(data []byte) (*Registry, error) {
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse devices YAML: %w", err)
	}

	if err := Validate(&registry); err != nil {
		return nil, fmt.Errorf("devices validation failed: %w", err)
	}

	return &registry, nil
}

// Validate checks registry invariants
func Validate(r *Registry) error {
	if len(r.Devices) == 0 {
		return fmt.Errorf("at least one device is required")
	}

	seen := make(map[string]bool, len(r.Devices))
	for i, d := range r.Devices {
		if d.Name == "" {
			return fmt.Errorf("device %d: name is required", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate device name: %s", d.Name)
		}
		seen[d.Name] = true
	}

	for id := range r.Sounds {
		if id <= 0 {
			return fmt.Errorf("sound ids must be positive, got %d", id)
		}
	}

	return nil
}

// SoundName returns the firmware sample name for a sound id, if registered
func (r *Registry) SoundName(id int) (string, bool) {
	name, ok := r.Sounds[id]
	return name, ok
}
