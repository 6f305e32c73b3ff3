package port

// Publisher is a port for publishing readings to an external sink.
type Publisher interface {
	// Publish sends a payload to the given topic
	Publish(topic string, payload interface{}) error

	// Close flushes pending messages and disconnects
	Close()
}
