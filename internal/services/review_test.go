package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) CreateWithAggregate(ctx context.Context, review types.Review, observedCount int, newRating float64) error {
	args := m.Called(ctx, review, observedCount, newRating)
	return args.Error(0)
}

func (m *mockReviewRepo) ListByToolID(ctx context.Context, toolID string) ([]types.Review, error) {
	args := m.Called(ctx, toolID)
	return args.Get(0).([]types.Review), args.Error(1)
}

type capturingPublisher struct {
	mu      sync.Mutex
	created []types.Review
	err     error
}

func (p *capturingPublisher) ReviewCreated(ctx context.Context, review types.Review) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, review)
	return nil
}

func seedTool(t *testing.T, repo *memStore, rating float64, count int) types.Tool {
	t.Helper()
	tool, err := repo.Create(context.Background(), types.Tool{
		ID:          "tool-1",
		Name:        "Sample Tool",
		Description: "desc",
		Category:    types.CategoryAutomation,
		PriceModel:  types.PriceModelFree,
		Platform:    types.PlatformWeb,
		Rating:      rating,
		ReviewCount: count,
	})
	require.NoError(t, err)
	return tool
}

func validSubmitInput(toolID string) SubmitReviewInput {
	return SubmitReviewInput{
		ToolID:  toolID,
		UserID:  "user-1",
		Rating:  4,
		Title:   "Solid",
		Content: "Does what it says.",
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	svc := NewReviewService(newMemStore(), &mockReviewRepo{}, nil, discardLogger())

	cases := map[string]func(*SubmitReviewInput){
		"missing tool id": func(in *SubmitReviewInput) { in.ToolID = " " },
		"missing user id": func(in *SubmitReviewInput) { in.UserID = "" },
		"rating too low":  func(in *SubmitReviewInput) { in.Rating = 0 },
		"rating too high": func(in *SubmitReviewInput) { in.Rating = 6 },
		"missing title":   func(in *SubmitReviewInput) { in.Title = "  " },
		"missing content": func(in *SubmitReviewInput) { in.Content = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validSubmitInput("tool-1")
			mutate(&input)
			_, err := svc.Submit(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSubmitReviewUnknownTool(t *testing.T) {
	svc := NewReviewService(newMemStore(), &mockReviewRepo{}, nil, discardLogger())

	_, err := svc.Submit(context.Background(), validSubmitInput("no-such-tool"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmitReviewAdvancesMean(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 0, 0)
	svc := NewReviewService(repo, repo, nil, discardLogger())

	first := validSubmitInput("tool-1")
	first.Rating = 4
	_, err := svc.Submit(context.Background(), first)
	require.NoError(t, err)

	second := validSubmitInput("tool-1")
	second.Rating = 2
	_, err = svc.Submit(context.Background(), second)
	require.NoError(t, err)

	tool, err := repo.Get(context.Background(), "tool-1")
	require.NoError(t, err)
	assert.Equal(t, 2, tool.ReviewCount)
	assert.InDelta(t, 3.0, tool.Rating, 1e-9)
}

func TestSubmitReviewWeightsExistingAggregate(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 4.5, 3)
	svc := NewReviewService(repo, repo, nil, discardLogger())

	input := validSubmitInput("tool-1")
	input.Rating = 2
	_, err := svc.Submit(context.Background(), input)
	require.NoError(t, err)

	tool, err := repo.Get(context.Background(), "tool-1")
	require.NoError(t, err)
	assert.Equal(t, 4, tool.ReviewCount)
	assert.InDelta(t, (4.5*3+2)/4, tool.Rating, 1e-9)
}

func TestSubmitReviewRetriesOnConflict(t *testing.T) {
	tools := newMemStore()
	seedTool(t, tools, 0, 0)

	reviews := new(mockReviewRepo)
	reviews.On("CreateWithAggregate", mock.Anything, mock.Anything, 0, 4.0).
		Return(store.ErrConflict).Once()
	reviews.On("CreateWithAggregate", mock.Anything, mock.Anything, 0, 4.0).
		Return(nil).Once()

	svc := NewReviewService(tools, reviews, nil, discardLogger())
	review, err := svc.Submit(context.Background(), validSubmitInput("tool-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, review.ID)
	reviews.AssertExpectations(t)
}

func TestSubmitReviewGivesUpAfterRepeatedConflicts(t *testing.T) {
	tools := newMemStore()
	seedTool(t, tools, 0, 0)

	reviews := new(mockReviewRepo)
	reviews.On("CreateWithAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(store.ErrConflict)

	svc := NewReviewService(tools, reviews, nil, discardLogger())
	_, err := svc.Submit(context.Background(), validSubmitInput("tool-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrConflict)
	reviews.AssertNumberOfCalls(t, "CreateWithAggregate", maxSubmitAttempts)
}

func TestSubmitReviewConcurrent(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 0, 0)
	svc := NewReviewService(repo, repo, nil, discardLogger())

	ratings := []int{5, 4, 3, 2}
	var wg sync.WaitGroup
	errs := make([]error, len(ratings))
	for i, rating := range ratings {
		wg.Add(1)
		go func(i, rating int) {
			defer wg.Done()
			input := validSubmitInput("tool-1")
			input.UserID = "user-" + string(rune('a'+i))
			input.Rating = rating
			_, errs[i] = svc.Submit(context.Background(), input)
		}(i, rating)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	tool, err := repo.Get(context.Background(), "tool-1")
	require.NoError(t, err)
	assert.Equal(t, len(ratings), tool.ReviewCount)
	assert.InDelta(t, 3.5, tool.Rating, 1e-9)

	reviews, err := repo.ListByToolID(context.Background(), "tool-1")
	require.NoError(t, err)
	assert.Len(t, reviews, len(ratings))
}

func TestSubmitReviewPublishesEvent(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 0, 0)
	publisher := &capturingPublisher{}
	svc := NewReviewService(repo, repo, publisher, discardLogger())

	review, err := svc.Submit(context.Background(), validSubmitInput("tool-1"))
	require.NoError(t, err)

	require.Len(t, publisher.created, 1)
	assert.Equal(t, review.ID, publisher.created[0].ID)
	assert.Equal(t, "tool-1", publisher.created[0].ToolID)
}

func TestSubmitReviewSucceedsWhenPublishFails(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 0, 0)
	publisher := &capturingPublisher{err: assert.AnError}
	svc := NewReviewService(repo, repo, publisher, discardLogger())

	_, err := svc.Submit(context.Background(), validSubmitInput("tool-1"))
	require.NoError(t, err)

	tool, err := repo.Get(context.Background(), "tool-1")
	require.NoError(t, err)
	assert.Equal(t, 1, tool.ReviewCount)
}

func TestListReviewsRequiresExistingTool(t *testing.T) {
	svc := NewReviewService(newMemStore(), &mockReviewRepo{}, nil, discardLogger())

	_, err := svc.ListByToolID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListReviewsNewestFirst(t *testing.T) {
	repo := newMemStore()
	seedTool(t, repo, 0, 0)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		err := repo.CreateWithAggregate(context.Background(), types.Review{
			ID:        string(rune('a' + i)),
			ToolID:    "tool-1",
			UserID:    "user-1",
			Rating:    3,
			Title:     "t",
			Content:   "c",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}, i, 3)
		require.NoError(t, err)
	}

	svc := NewReviewService(repo, repo, nil, discardLogger())
	reviews, err := svc.ListByToolID(context.Background(), "tool-1")
	require.NoError(t, err)

	require.Len(t, reviews, 3)
	assert.Equal(t, "c", reviews[0].ID)
	assert.Equal(t, "b", reviews[1].ID)
	assert.Equal(t, "a", reviews[2].ID)
}
