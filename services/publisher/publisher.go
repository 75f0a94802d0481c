package publisher

// Publisher pushes serialized records onto provider-keyed streams.
type Publisher interface {
	// Publish publishes one record payload under the provider key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
