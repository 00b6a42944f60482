package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitoolshub/apiserver/types"
)

func TestSubmitReviewRequiresAuth(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/api/reviews", "", SubmitReviewRequest{
		ToolID: "tool-1", Rating: 5, Title: "t", Content: "c",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitReviewUpdatesAggregate(t *testing.T) {
	router, _ := newTestAPI(t)
	token, user := registerUser(t, router, "alice")
	tool := createTool(t, router, token, sampleToolRequest("Tool"))

	rec := doJSON(t, router, http.MethodPost, "/api/reviews", token, SubmitReviewRequest{
		ToolID:  tool.ID,
		Rating:  4,
		Title:   "Good",
		Content: "Works well.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decodeJSON[types.Review](t, rec)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, tool.ID, review.ToolID)
	assert.Equal(t, user.ID, review.UserID)
	assert.Equal(t, 4, review.Rating)

	rec = doJSON(t, router, http.MethodGet, "/api/tools/"+tool.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeJSON[types.Tool](t, rec)
	assert.Equal(t, 1, updated.ReviewCount)
	assert.InDelta(t, 4.0, updated.Rating, 1e-9)
}

func TestSubmitReviewUnknownTool(t *testing.T) {
	router, _ := newTestAPI(t)
	token, _ := registerUser(t, router, "alice")

	rec := doJSON(t, router, http.MethodPost, "/api/reviews", token, SubmitReviewRequest{
		ToolID:  "no-such-tool",
		Rating:  4,
		Title:   "t",
		Content: "c",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitReviewRejectsBadRating(t *testing.T) {
	router, _ := newTestAPI(t)
	token, _ := registerUser(t, router, "alice")
	tool := createTool(t, router, token, sampleToolRequest("Tool"))

	for _, rating := range []int{0, -1, 6} {
		rec := doJSON(t, router, http.MethodPost, "/api/reviews", token, SubmitReviewRequest{
			ToolID:  tool.ID,
			Rating:  rating,
			Title:   "t",
			Content: "c",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}
}

func TestListReviewsAnnotatesUsername(t *testing.T) {
	router, _ := newTestAPI(t)
	token, _ := registerUser(t, router, "alice")
	tool := createTool(t, router, token, sampleToolRequest("Tool"))

	rec := doJSON(t, router, http.MethodPost, "/api/reviews", token, SubmitReviewRequest{
		ToolID:  tool.ID,
		Rating:  5,
		Title:   "Great",
		Content: "Loved it.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/reviews/"+tool.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeJSON[ReviewsResponse](t, rec)
	require.Len(t, listing.Reviews, 1)
	assert.Equal(t, "alice", listing.Reviews[0].Username)
	assert.Equal(t, "Great", listing.Reviews[0].Title)
}

func TestListReviewsUnknownTool(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/api/reviews/no-such-tool", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReviewsEmptyTool(t *testing.T) {
	router, _ := newTestAPI(t)
	token, _ := registerUser(t, router, "alice")
	tool := createTool(t, router, token, sampleToolRequest("Tool"))

	rec := doJSON(t, router, http.MethodGet, "/api/reviews/"+tool.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decodeJSON[ReviewsResponse](t, rec)
	assert.Empty(t, listing.Reviews)
}
