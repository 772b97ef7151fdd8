package signal

// FirmwarePayload is the command body the indicator firmware parses.
// The short keys are fixed in the deployed firmware and must not change.
type FirmwarePayload struct {
	R        uint8  `json:"r"`
	G        uint8  `json:"g"`
	B        uint8  `json:"b"`
	Effect   string `json:"effect"`
	Duration int    `json:"duration"`
	Priority int    `json:"priority"`
	Sound    int    `json:"sound,omitempty"`
}

// FirmwarePayloadFor flattens a signal into the wire format
func FirmwarePayloadFor(sig *Signal) FirmwarePayload {
	return FirmwarePayload{
		R:        sig.Color.R,
		G:        sig.Color.G,
		B:        sig.Color.B,
		Effect:   string(sig.Effect),
		Duration: sig.DurationMs,
		Priority: sig.Priority,
		Sound:    sig.SoundID,
	}
}
