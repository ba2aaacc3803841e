package testutil

// FixedRequestID returns the same request id every time.
//
// Golden output and recorded requests stay byte-identical across runs.
// Satisfies client.RequestIDGenerator.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedRequestID struct {
	id string
}

// NewFixedRequestID creates a generator for id. An empty id becomes
// "test-request".
func NewFixedRequestID(id string) FixedRequestID {
	if id == "" {
		id = "test-request"
	}
	return FixedRequestID{id: id}
}

// Generate returns the fixed id.
func (g FixedRequestID) Generate() string {
	return g.id
}
