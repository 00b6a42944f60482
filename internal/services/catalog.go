package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ToolRepository defines persistence operations for tools.
type ToolRepository interface {
	List(ctx context.Context, filter store.ToolFilter, offset, limit int) ([]types.Tool, int, error)
	Get(ctx context.Context, id string) (types.Tool, error)
	Create(ctx context.Context, tool types.Tool) (types.Tool, error)
	Count(ctx context.Context) (int, error)
	SetImageKey(ctx context.Context, id, imageKey string) error
}

// QueryParams carries the raw, unvalidated inputs of a catalog query.
// Empty filter fields are absent.
type QueryParams struct {
	Search     string
	Category   string
	PriceModel string
	Platform   string
	Page       int
	PerPage    int
}

// QueryResult is a single page of matching tools plus the total match
// count before pagination.
type QueryResult struct {
	Tools   []types.Tool
	Total   int
	Page    int
	PerPage int
}

// CreateToolInput holds the parameters for cataloging a new tool.
type CreateToolInput struct {
	Name         string
	Description  string
	Category     string
	PriceModel   string
	Platform     string
	PriceDetails string
	WebsiteURL   string
}

// CatalogService answers filtered, searched, paginated queries over the
// tool catalog and the static distinct-value listings for its enums.
type CatalogService struct {
	repo   ToolRepository
	logger *slog.Logger
}

func NewCatalogService(repo ToolRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// Query validates the filter enums and pagination bounds, then returns the
// requested page. A page past the last match yields an empty page with the
// correct total, not an error.
func (s *CatalogService) Query(ctx context.Context, params QueryParams) (QueryResult, error) {
	filter, err := buildFilter(params)
	if err != nil {
		return QueryResult{}, err
	}

	page := params.Page
	if page < 1 {
		return QueryResult{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	perPage := params.PerPage
	if perPage < 1 {
		return QueryResult{}, fmt.Errorf("%w: per_page must be > 0", ErrInvalidInput)
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	offset := (page - 1) * perPage
	tools, total, err := s.repo.List(ctx, filter, offset, perPage)
	if err != nil {
		return QueryResult{}, fmt.Errorf("list tools: %w", err)
	}

	return QueryResult{
		Tools:   tools,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (types.Tool, error) {
	return s.repo.Get(ctx, id)
}

// Create catalogs a new tool with an empty rating aggregate.
func (s *CatalogService) Create(ctx context.Context, input CreateToolInput) (types.Tool, error) {
	if strings.TrimSpace(input.Name) == "" {
		return types.Tool{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Description) == "" {
		return types.Tool{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	category, err := types.ParseCategory(input.Category)
	if err != nil {
		return types.Tool{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	priceModel, err := types.ParsePriceModel(input.PriceModel)
	if err != nil {
		return types.Tool{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	platform, err := types.ParsePlatform(input.Platform)
	if err != nil {
		return types.Tool{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tool := types.Tool{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		Category:     category,
		PriceModel:   priceModel,
		Platform:     platform,
		PriceDetails: strings.TrimSpace(input.PriceDetails),
		WebsiteURL:   strings.TrimSpace(input.WebsiteURL),
	}

	created, err := s.repo.Create(ctx, tool)
	if err != nil {
		return types.Tool{}, fmt.Errorf("create tool: %w", err)
	}

	s.logger.InfoContext(ctx, "tool cataloged",
		slog.String("tool_id", created.ID),
		slog.String("name", created.Name),
		slog.String("category", string(created.Category)),
	)
	return created, nil
}

// SetImageKey records the storage key of the tool's uploaded logo.
func (s *CatalogService) SetImageKey(ctx context.Context, toolID, imageKey string) error {
	return s.repo.SetImageKey(ctx, toolID, imageKey)
}

// Categories returns the static value/label listing for categories.
// The set is fixed by the domain, not discovered from stored data, so an
// empty catalog still yields the full listing.
func (s *CatalogService) Categories() []types.EnumOption {
	return types.CategoryOptions()
}

// PriceModels returns the static value/label listing for price models.
func (s *CatalogService) PriceModels() []types.EnumOption {
	return types.PriceModelOptions()
}

// Platforms returns the static value/label listing for platforms.
func (s *CatalogService) Platforms() []types.EnumOption {
	return types.PlatformOptions()
}

func buildFilter(params QueryParams) (store.ToolFilter, error) {
	var filter store.ToolFilter

	if params.Category != "" {
		category, err := types.ParseCategory(params.Category)
		if err != nil {
			return store.ToolFilter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Category = category
	}
	if params.PriceModel != "" {
		priceModel, err := types.ParsePriceModel(params.PriceModel)
		if err != nil {
			return store.ToolFilter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.PriceModel = priceModel
	}
	if params.Platform != "" {
		platform, err := types.ParsePlatform(params.Platform)
		if err != nil {
			return store.ToolFilter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Platform = platform
	}
	filter.Search = strings.TrimSpace(params.Search)

	return filter, nil
}
