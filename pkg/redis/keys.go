package redis

import "fmt"

// Key construction helpers for the signal cache

// LatestReadingKey returns the key for the most recent merged environmental
// reading (string, JSON)
// Pattern: environment:reading:latest
func LatestReadingKey() string {
	return "environment:reading:latest"
}

// LatestSignalKey returns the key for the last published signal of a device
// (string, JSON)
// Pattern: signal:latest:{device}
func LatestSignalKey(device string) string {
	return fmt.Sprintf("signal:latest:%s", device)
}

// SignalHistoryKey returns the key for the bounded signal history of a
// device (list, newest first)
// Pattern: signal:history:{device}
func SignalHistoryKey(device string) string {
	return fmt.Sprintf("signal:history:%s", device)
}

// DeviceMetaKey returns the key for indicator device metadata (hash)
// Pattern: device:meta:{device}
func DeviceMetaKey(device string) string {
	return fmt.Sprintf("device:meta:%s", device)
}
