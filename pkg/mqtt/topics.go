package mqtt

import "fmt"

// Topic layout for the Lumee indicator fleet.
//
// Command topics carry the compact firmware payload for a single indicator
// device. Context topics carry the full signal (message, category, reading
// snapshot) for dashboards and the conversational layer.
const (
	// Indicator command topics (output, consumed by firmware bridges)
	TopicCommandBase       = "lumee/command/indicator"
	TopicCommandIndicators = "lumee/command/indicator/+"

	// Signal context topics (output, consumed by observers)
	TopicContextBase    = "lumee/context/signal"
	TopicContextSignals = "lumee/context/signal/+"

	// Device presence topics (input, published by firmware bridges)
	TopicPresence = "lumee/presence/+"
)

// CommandTopic constructs the command topic for a specific indicator device
// Pattern: lumee/command/indicator/{device}
func CommandTopic(device string) string {
	return fmt.Sprintf("%s/%s", TopicCommandBase, device)
}

// ContextTopic constructs the signal context topic for a specific device
// Pattern: lumee/context/signal/{device}
func ContextTopic(device string) string {
	return fmt.Sprintf("%s/%s", TopicContextBase, device)
}

// PresenceTopic constructs the presence topic for a specific device
// Pattern: lumee/presence/{device}
func PresenceTopic(device string) string {
	return fmt.Sprintf("lumee/presence/%s", device)
}
