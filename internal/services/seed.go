package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aitoolshub/apiserver/types"
)

// SeedService idempotently loads the fixed sample catalog into an empty
// store. The seeded rating/review_count pairs are historical aggregates
// carried over from the source data; they have no backing review records.
type SeedService struct {
	repo   ToolRepository
	logger *slog.Logger
}

func NewSeedService(repo ToolRepository, logger *slog.Logger) *SeedService {
	return &SeedService{repo: repo, logger: logger}
}

// SeedIfEmpty inserts the sample catalog when no tools exist yet and
// reports how many tools were inserted. With a non-empty store it is a
// no-op: repeated calls never duplicate or overwrite data.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (int, error) {
	existing, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count tools: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	catalog := SampleCatalog()
	for _, tool := range catalog {
		tool.ID = uuid.New().String()
		if _, err := s.repo.Create(ctx, tool); err != nil {
			return 0, fmt.Errorf("seed tool %q: %w", tool.Name, err)
		}
	}

	s.logger.InfoContext(ctx, "seeded sample catalog", slog.Int("tools", len(catalog)))
	return len(catalog), nil
}

// SampleCatalog returns the fixed seed dataset.
func SampleCatalog() []types.Tool {
	return []types.Tool{
		{
			Name:         "ChatGPT",
			Description:  "Advanced conversational AI for text generation, coding assistance, and creative writing",
			Category:     types.CategoryTextGeneration,
			PriceModel:   types.PriceModelFreemium,
			Platform:     types.PlatformWeb,
			PriceDetails: "Free tier available, Plus at $20/month",
			WebsiteURL:   "https://chat.openai.com",
			Rating:       4.8,
			ReviewCount:  15420,
		},
		{
			Name:         "Midjourney",
			Description:  "AI-powered image generation tool creating stunning artwork from text prompts",
			Category:     types.CategoryImageCreation,
			PriceModel:   types.PriceModelSubscription,
			Platform:     types.PlatformWeb,
			PriceDetails: "Starting at $10/month",
			WebsiteURL:   "https://midjourney.com",
			Rating:       4.7,
			ReviewCount:  8930,
		},
		{
			Name:         "GitHub Copilot",
			Description:  "AI pair programmer that helps you write code faster with intelligent suggestions",
			Category:     types.CategoryCodeGeneration,
			PriceModel:   types.PriceModelSubscription,
			Platform:     types.PlatformDesktop,
			PriceDetails: "$10/month for individuals",
			WebsiteURL:   "https://github.com/features/copilot",
			Rating:       4.6,
			ReviewCount:  12500,
		},
		{
			Name:         "Runway ML",
			Description:  "Creative suite of AI tools for video editing, generation, and visual effects",
			Category:     types.CategoryVideoEditing,
			PriceModel:   types.PriceModelFreemium,
			Platform:     types.PlatformWeb,
			PriceDetails: "Free tier, Pro at $15/month",
			WebsiteURL:   "https://runwayml.com",
			Rating:       4.5,
			ReviewCount:  5670,
		},
		{
			Name:         "Mubert",
			Description:  "AI music generator creating royalty-free tracks for content creators",
			Category:     types.CategoryMusicGeneration,
			PriceModel:   types.PriceModelFreemium,
			Platform:     types.PlatformWeb,
			PriceDetails: "Free tier, Pro at $11.69/month",
			WebsiteURL:   "https://mubert.com",
			Rating:       4.3,
			ReviewCount:  3420,
		},
		{
			Name:         "Zapier",
			Description:  "Automation platform connecting apps and services with AI-powered workflows",
			Category:     types.CategoryAutomation,
			PriceModel:   types.PriceModelFreemium,
			Platform:     types.PlatformWeb,
			PriceDetails: "Free tier, Starter at $19.99/month",
			WebsiteURL:   "https://zapier.com",
			Rating:       4.4,
			ReviewCount:  18900,
		},
		{
			Name:         "DataRobot",
			Description:  "Enterprise AI platform for automated machine learning and predictive analytics",
			Category:     types.CategoryDataAnalysis,
			PriceModel:   types.PriceModelSubscription,
			Platform:     types.PlatformWeb,
			PriceDetails: "Enterprise pricing on request",
			WebsiteURL:   "https://datarobot.com",
			Rating:       4.2,
			ReviewCount:  980,
		},
		{
			Name:         "Leonardo AI",
			Description:  "Advanced AI image generator with fine-tuned models for game assets and art",
			Category:     types.CategoryGaming,
			PriceModel:   types.PriceModelFreemium,
			Platform:     types.PlatformWeb,
			PriceDetails: "Free tier, Artisan at $10/month",
			WebsiteURL:   "https://leonardo.ai",
			Rating:       4.6,
			ReviewCount:  7250,
		},
		{
			Name:         "DALL-E 3",
			Description:  "OpenAI's latest image generation model with improved prompt adherence",
			Category:     types.CategoryImageCreation,
			PriceModel:   types.PriceModelSubscription,
			Platform:     types.PlatformWeb,
			PriceDetails: "Available with ChatGPT Plus",
			WebsiteURL:   "https://openai.com/dall-e-3",
			Rating:       4.7,
			ReviewCount:  11200,
		},
		{
			Name:         "Jasper AI",
			Description:  "AI writing assistant for marketing copy, blog posts, and business content",
			Category:     types.CategoryTextGeneration,
			PriceModel:   types.PriceModelSubscription,
			Platform:     types.PlatformWeb,
			PriceDetails: "Creator at $39/month",
			WebsiteURL:   "https://jasper.ai",
			Rating:       4.4,
			ReviewCount:  9870,
		},
	}
}
