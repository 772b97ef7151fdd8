package profile

import (
	"github.com/lumee/lumee-platform/internal/schedule"
)

// Sensitivity names an environmental factor a user reacts to more
// strongly than the general population.
type Sensitivity string

const (
	SensitivityRespiratory Sensitivity = "respiratory"
	SensitivitySkin        Sensitivity = "skin"
	SensitivityAllergy     Sensitivity = "allergy"
	SensitivityCold        Sensitivity = "cold"
)

// Profile carries the personalization data for a single device owner
type Profile struct {
	Name             string           `json:"name"`
	SensitiveFactors []Sensitivity    `json:"sensitive_factors"`
	Hobbies          []string         `json:"hobbies"`
	Schedule         []schedule.Entry `json:"schedule"`
}

// IsSensitiveTo reports whether the profile declares the given factor
func (p *Profile) IsSensitiveTo(factor Sensitivity) bool {
	for _, f := range p.SensitiveFactors {
		if f == factor {
			return true
		}
	}
	return false
}

// GuestProfile is the fallback used when a device has no registered
// owner. No sensitivities, no schedule: signals pass through unmodified.
func GuestProfile() *Profile {
	return &Profile{
		Name:             "guest",
		SensitiveFactors: nil,
		Hobbies:          nil,
		Schedule:         nil,
	}
}
