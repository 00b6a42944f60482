package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitoolshub/apiserver/types"
)

type fakeBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
	closed  bool
}

func (b *fakeBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.channel = channel
	b.data = data
	b.attrs = attrs
	return "msg-1", b.err
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

func TestPublisherReviewCreated(t *testing.T) {
	backend := &fakeBackend{}
	publisher := NewPublisher(backend)

	submitted := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	err := publisher.ReviewCreated(context.Background(), types.Review{
		ID:        "review-1",
		ToolID:    "tool-1",
		UserID:    "user-1",
		Rating:    4,
		CreatedAt: submitted,
	})
	require.NoError(t, err)

	assert.Equal(t, "tool-review-created", backend.channel)
	assert.Equal(t, map[string]string{"tool_id": "tool-1"}, backend.attrs)

	var event ReviewCreatedEvent
	require.NoError(t, json.Unmarshal(backend.data, &event))
	assert.Equal(t, "review-1", event.ReviewID)
	assert.Equal(t, "tool-1", event.ToolID)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, 4, event.Rating)
	assert.True(t, event.SubmittedAt.Equal(submitted))
}

func TestPublisherPropagatesBackendError(t *testing.T) {
	backend := &fakeBackend{err: assert.AnError}
	publisher := NewPublisher(backend)

	err := publisher.ReviewCreated(context.Background(), types.Review{ID: "r", ToolID: "t"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPublisherClose(t *testing.T) {
	backend := &fakeBackend{}
	publisher := NewPublisher(backend)

	require.NoError(t, publisher.Close())
	assert.True(t, backend.closed)
}
