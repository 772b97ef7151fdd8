package signal

import (
	"log/slog"

	"github.com/lumee/lumee-platform/internal/weather"
)

// Classify maps a normalized environmental reading to an actuation signal.
// Pure and total: every reading produces exactly one signal. Evaluation
// walks the cascade top to bottom and returns a copy of the first matching
// rule's template, so callers may mutate the result freely.
func Classify(reading *weather.Reading) *Signal {
	for _, t := range cascade {
		for _, r := range t.rules {
			if r.matches(reading) {
				sig := r.template
				return &sig
			}
		}
	}

	sig := defaultSignal
	return &sig
}

// ClassifyWithLog is Classify plus a debug trace of the matched rule
func ClassifyWithLog(reading *weather.Reading, logger *slog.Logger) *Signal {
	for _, t := range cascade {
		for _, r := range t.rules {
			if r.matches(reading) {
				logger.Debug("Classification rule matched",
					"tier", t.name,
					"rule", r.name,
					"priority", r.template.Priority,
					"category", r.template.Category)
				sig := r.template
				return &sig
			}
		}
	}

	logger.Debug("No classification rule matched, using default signal")
	sig := defaultSignal
	return &sig
}
