package types

import "time"

// Tool represents a cataloged AI tool with descriptive metadata and the
// aggregate rating derived from its reviews.
type Tool struct {
	// ID is the unique identifier of the tool.
	ID string `json:"id" db:"id"`

	// Name is the human-readable name of the tool.
	Name string `json:"name" db:"name"`

	// Description is a short summary of what the tool does. Search queries
	// match case-insensitively against Name and Description.
	Description string `json:"description" db:"description"`

	// Category classifies the tool into one of the closed set of
	// catalog categories (see Category).
	Category Category `json:"category" db:"category"`

	// PriceModel describes how the tool is priced (see PriceModel).
	PriceModel PriceModel `json:"price_model" db:"price_model"`

	// Platform is the primary way the tool is delivered (see Platform).
	Platform Platform `json:"platform" db:"platform"`

	// PriceDetails is free-form pricing text shown alongside PriceModel,
	// e.g. "Free tier, Pro at $15/month".
	PriceDetails string `json:"price_details" db:"price_details"`

	// WebsiteURL points to the tool's official website.
	WebsiteURL string `json:"website_url" db:"website_url"`

	// ImageKey references the tool's logo image in object storage.
	// Empty when no image has been uploaded.
	ImageKey string `json:"image_key,omitempty" db:"image_key"`

	// Rating is the arithmetic mean of all review ratings for this tool,
	// in the range 0 to 5. It is maintained incrementally as reviews are
	// submitted and must stay consistent with ReviewCount.
	Rating float64 `json:"rating" db:"rating"`

	// ReviewCount is the number of reviews contributing to Rating.
	ReviewCount int `json:"review_count" db:"review_count"`

	// CreatedAt is the timestamp at which the tool was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the tool.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
