package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aitoolshub/apiserver/internal/services"
	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

// ReviewHandler provides HTTP handlers for reviews.
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler constructs a handler with the provided service.
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ReviewRouter registers review routes on the given router.
func ReviewRouter(r chi.Router, reviews *services.ReviewService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewReviewHandler(reviews)

	r.Route("/reviews", func(r chi.Router) {
		r.With(authMiddleware).Post("/", handler.SubmitReview)
		r.Get("/{toolID}", handler.ListReviews)
	})
}

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	ToolID  string `json:"tool_id"`
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ReviewsResponse is the review listing payload.
type ReviewsResponse struct {
	Reviews []types.Review `json:"reviews"`
}

func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	review, err := h.reviews.Submit(r.Context(), services.SubmitReviewInput{
		ToolID:  req.ToolID,
		UserID:  userID,
		Rating:  req.Rating,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "tool not found")
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusConflict, "review submission conflicted, please retry")
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit review")
		}
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "toolID")

	reviews, err := h.reviews.ListByToolID(r.Context(), toolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tool not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	writeJSON(w, http.StatusOK, ReviewsResponse{Reviews: reviews})
}
