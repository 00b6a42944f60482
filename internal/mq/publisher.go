package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aitoolshub/apiserver/types"
)

// topicReviewCreated is the channel downstream consumers (search indexer,
// notifications) subscribe to.
const topicReviewCreated = "tool-review-created"

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// ReviewCreatedEvent is the wire payload emitted when a review is accepted.
type ReviewCreatedEvent struct {
	ReviewID    string    `json:"review_id"`
	ToolID      string    `json:"tool_id"`
	UserID      string    `json:"user_id"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Publisher emits catalog events through a broker backend.
type Publisher struct {
	backend Backend
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend) *Publisher {
	return &Publisher{backend: backend}
}

// ReviewCreated publishes a review-created event.
func (p *Publisher) ReviewCreated(ctx context.Context, review types.Review) error {
	event := ReviewCreatedEvent{
		ReviewID:    review.ID,
		ToolID:      review.ToolID,
		UserID:      review.UserID,
		Rating:      review.Rating,
		SubmittedAt: review.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	attrs := map[string]string{"tool_id": review.ToolID}
	_, err = p.backend.Publish(ctx, topicReviewCreated, data, attrs)
	return err
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
