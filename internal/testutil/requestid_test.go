package testutil

import "testing"

func TestFixedRequestID(t *testing.T) {
	g := NewFixedRequestID("req-1")
	for i := 0; i < 3; i++ {
		if got := g.Generate(); got != "req-1" {
			t.Errorf("Generate() = %q, expected %q", got, "req-1")
		}
	}
}

func TestFixedRequestID_Default(t *testing.T) {
	if got := NewFixedRequestID("").Generate(); got != "test-request" {
		t.Errorf("Generate() = %q, expected default", got)
	}
}
