package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

// maxSubmitAttempts bounds the optimistic retry loop around the guarded
// aggregate update. Each failed attempt means another submission for the
// same tool committed in between, so attempts never exceed the number of
// concurrent submitters.
const maxSubmitAttempts = 5

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	CreateWithAggregate(ctx context.Context, review types.Review, observedCount int, newRating float64) error
	ListByToolID(ctx context.Context, toolID string) ([]types.Review, error)
}

// ReviewEventPublisher emits review lifecycle events for downstream
// consumers (search indexing, notifications). Publishing is best-effort.
type ReviewEventPublisher interface {
	ReviewCreated(ctx context.Context, review types.Review) error
}

// SubmitReviewInput holds the parameters for submitting a review.
// UserID is the verified account identifier supplied by the auth boundary.
type SubmitReviewInput struct {
	ToolID  string
	UserID  string
	Rating  int
	Title   string
	Content string
}

// ReviewService persists reviews and keeps the owning tool's rating
// aggregate consistent with them.
type ReviewService struct {
	tools   ToolRepository
	reviews ReviewRepository
	events  ReviewEventPublisher
	logger  *slog.Logger
}

// NewReviewService constructs a ReviewService. events may be nil when no
// publisher is configured.
func NewReviewService(tools ToolRepository, reviews ReviewRepository, events ReviewEventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		tools:   tools,
		reviews: reviews,
		events:  events,
		logger:  logger,
	}
}

// Submit validates and persists a review, updating the owning tool's mean
// rating and review count as one atomic unit. The mean is advanced with the
// running weighted formula rather than recomputed from all reviews, keeping
// submission O(1) in review count. Concurrent submissions against the same
// tool are serialized by the guarded update; a stale observation is retried
// with a fresh read.
func (s *ReviewService) Submit(ctx context.Context, input SubmitReviewInput) (types.Review, error) {
	if strings.TrimSpace(input.ToolID) == "" {
		return types.Review{}, fmt.Errorf("%w: tool_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.UserID) == "" {
		return types.Review{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return types.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Title) == "" {
		return types.Review{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Content) == "" {
		return types.Review{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		tool, err := s.tools.Get(ctx, input.ToolID)
		if err != nil {
			return types.Review{}, err
		}

		newRating := (tool.Rating*float64(tool.ReviewCount) + float64(input.Rating)) / float64(tool.ReviewCount+1)

		review := types.Review{
			ID:        uuid.New().String(),
			ToolID:    input.ToolID,
			UserID:    input.UserID,
			Rating:    input.Rating,
			Title:     strings.TrimSpace(input.Title),
			Content:   strings.TrimSpace(input.Content),
			CreatedAt: time.Now().UTC(),
		}

		err = s.reviews.CreateWithAggregate(ctx, review, tool.ReviewCount, newRating)
		if errors.Is(err, store.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return types.Review{}, fmt.Errorf("create review: %w", err)
		}

		s.logger.InfoContext(ctx, "review submitted",
			slog.String("review_id", review.ID),
			slog.String("tool_id", review.ToolID),
			slog.Int("rating", review.Rating),
			slog.Float64("new_rating", newRating),
			slog.Int("new_count", tool.ReviewCount+1),
		)
		s.publishCreated(ctx, review)
		return review, nil
	}

	return types.Review{}, fmt.Errorf("submit review contention: %w", lastErr)
}

// ListByToolID returns a tool's reviews newest first, each annotated with
// the author's username. The tool must exist.
func (s *ReviewService) ListByToolID(ctx context.Context, toolID string) ([]types.Review, error) {
	if _, err := s.tools.Get(ctx, toolID); err != nil {
		return nil, err
	}
	return s.reviews.ListByToolID(ctx, toolID)
}

func (s *ReviewService) publishCreated(ctx context.Context, review types.Review) {
	if s.events == nil {
		return
	}
	if err := s.events.ReviewCreated(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}
}
