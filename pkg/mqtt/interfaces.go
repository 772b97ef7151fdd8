package mqtt

import "context"

// Client is the broker-facing surface the agent works against. The
// concrete implementation wraps Paho; tests substitute their own.
type Client interface {
	// Connect establishes a connection to the MQTT broker
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the MQTT broker
	Disconnect()

	// Subscribe registers a handler for a topic at the given QoS
	Subscribe(topic string, qos byte, handler MessageHandler) error

	// Publish publishes a payload to a topic
	Publish(topic string, qos byte, retained bool, payload []byte) error

	// IsConnected reports whether the client currently has a broker session
	IsConnected() bool
}

// MessageHandler is a callback function for handling incoming MQTT messages
type MessageHandler func(Message)

// Message is an incoming MQTT message
type Message interface {
	// Topic returns the topic the message was published to
	Topic() string

	// Payload returns the message payload
	Payload() []byte
}
