package signal

import (
	"github.com/lumee/lumee-platform/internal/profile"
)

// brightnessBoost is the fixed increase applied when a signal touches a
// factor the user is sensitive to. Boosts never stack.
const brightnessBoost = 30

// sensitivityCategories maps each declared sensitivity to the signal
// categories it reacts to
var sensitivityCategories = map[profile.Sensitivity][]Category{
	profile.SensitivityRespiratory: {CategoryParticulate, CategoryOzone},
	profile.SensitivitySkin:        {CategoryUV},
	profile.SensitivityAllergy:     {CategoryPollen},
	profile.SensitivityCold:        {CategoryColdEmergency, CategoryCold, CategoryFreezing},
}

// AdjustForUser returns a copy of sig with the brightness boost applied
// when its category matches one of the user's sensitive factors. The
// input signal is never mutated; guest profiles pass signals through
// untouched.
func AdjustForUser(sig *Signal, p *profile.Profile) *Signal {
	if sig == nil {
		return nil
	}

	adjusted := *sig

	if p == nil || len(p.SensitiveFactors) == 0 {
		return &adjusted
	}

	for _, factor := range p.SensitiveFactors {
		categories, ok := sensitivityCategories[factor]
		if !ok {
			continue
		}
		for _, cat := range categories {
			if sig.Category == cat {
				adjusted.BrightnessBoost = brightnessBoost
				return &adjusted
			}
		}
	}

	return &adjusted
}
