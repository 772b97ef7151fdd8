package signal

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Base brightness levels by sun position. The indicator sits in living
// spaces; full brightness at night is unpleasant, so output follows the
// sun rather than a fixed clock schedule.
const (
	brightnessDay      = 100
	brightnessTwilight = 60
	brightnessNight    = 30
)

// twilight spans sun altitudes between civil twilight and sunrise
const twilightLowDegrees = -6.0

// BaseBrightness returns the brightness level for the given time and
// coordinates: full during the day, dimmed through twilight, lowest at
// night.
func BaseBrightness(t time.Time, lat, lon float64) int {
	position := suncalc.GetPosition(t, lat, lon)
	altitudeDegrees := position.Altitude * (180.0 / math.Pi)

	switch {
	case altitudeDegrees > 0:
		return brightnessDay
	case altitudeDegrees > twilightLowDegrees:
		return brightnessTwilight
	default:
		return brightnessNight
	}
}

// EffectiveBrightness combines the daylight base level with a signal's
// sensitivity boost, capped at 100
func EffectiveBrightness(sig *Signal, t time.Time, lat, lon float64) int {
	brightness := BaseBrightness(t, lat, lon) + sig.BrightnessBoost
	if brightness > 100 {
		brightness = 100
	}
	return brightness
}
