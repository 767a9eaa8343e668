package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), SubjectListingCreated, map[string]int{"id": 1}))
	p.Close()
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	// Nothing listens on this port; Connect fails fast without retries.
	_, err := NewNATSPublisher("nats://127.0.0.1:1")
	assert.Error(t, err)
}
