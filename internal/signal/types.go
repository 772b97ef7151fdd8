package signal

// Category is the stable classification tag emitted alongside the human
// message. Sensitivity matching works on this tag, never on message text.
type Category string

const (
	CategoryHeatEmergency Category = "heat_emergency"
	CategoryColdEmergency Category = "cold_emergency"
	CategoryParticulate   Category = "particulate"
	CategoryOzone         Category = "ozone"
	CategoryStorm         Category = "storm"
	CategoryRain          Category = "rain"
	CategorySnow          Category = "snow"
	CategoryFog           Category = "fog"
	CategoryClouds        Category = "clouds"
	CategoryUV            Category = "uv"
	CategoryPollen        Category = "pollen"
	CategoryHumidity      Category = "humidity"
	CategoryDry           Category = "dry"
	CategoryHot           Category = "hot"
	CategoryWarm          Category = "warm"
	CategoryPleasant      Category = "pleasant"
	CategoryCool          Category = "cool"
	CategoryCold          Category = "cold"
	CategoryFreezing      Category = "freezing"
	CategoryClear         Category = "clear"
)

// Effect is one of the animation patterns the indicator firmware implements
type Effect string

const (
	EffectSolid     Effect = "solid"
	EffectSlowBlink Effect = "slow_blink"
	EffectFastBlink Effect = "fast_blink"
	EffectBreathe   Effect = "breathe"
	EffectPulse     Effect = "pulse"
	EffectWave      Effect = "wave"
	EffectSparkle   Effect = "sparkle"
	EffectRain      Effect = "rain"
	EffectLightning Effect = "lightning"
	EffectGradient  Effect = "gradient"
)

// RGB is an indicator color, 0-255 per channel
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Signal is the actuation signal produced by the classification engine.
// Priority runs 1 (most urgent) to 5; DurationMs 0 means the effect is
// self-timed. BrightnessBoost is set only by the sensitivity adjuster.
type Signal struct {
	Priority        int      `json:"priority"`
	Color           RGB      `json:"color"`
	Effect          Effect   `json:"effect"`
	DurationMs      int      `json:"duration_ms"`
	SoundID         int      `json:"sound_id,omitempty"`
	Category        Category `json:"category"`
	Message         string   `json:"message"`
	BrightnessBoost int      `json:"brightness_boost"`
}
