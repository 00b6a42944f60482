package types

import "time"

// Review represents a single account's rating and commentary on one tool.
// Reviews are immutable once created.
type Review struct {
	// ID is the unique identifier of the review.
	ID string `json:"id" db:"id"`

	// ToolID references the tool this review belongs to. A review's
	// rating contributes to that tool's aggregate Rating/ReviewCount.
	ToolID string `json:"tool_id" db:"tool_id"`

	// UserID references the account that authored the review.
	UserID string `json:"user_id" db:"user_id"`

	// Username is the author's username, joined in at read time. It is
	// not stored on the review row.
	Username string `json:"username,omitempty" db:"-"`

	// Rating is the integer score given by the author, 1 to 5 inclusive.
	Rating int `json:"rating" db:"rating"`

	// Title is a short headline for the review.
	Title string `json:"title" db:"title"`

	// Content is the review body text.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp at which the review was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
