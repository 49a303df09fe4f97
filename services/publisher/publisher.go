package publisher

// Publisher pushes finished records to downstream consumers
type Publisher interface {
	// Publish publishes one message under key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
