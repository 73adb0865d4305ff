package bus

// Published records one message for test assertions.
type Published struct {
	Topic   string
	Payload []byte
}

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Messages contains everything published, in order.
	Messages []Published

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Connected: true}
}

// Publish records the message.
func (f *FakePublisher) Publish(topic string, payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Published{Topic: topic, Payload: payload})
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Messages = nil
	f.Closed = false
	f.PublishError = nil
	f.Connected = true
}
