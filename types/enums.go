package types

import (
	"fmt"
	"strings"
)

// Category classifies a tool into one of the fixed catalog categories.
// The set is closed: values outside it are rejected at the boundary.
type Category string

const (
	CategoryMusicGeneration Category = "music_generation"
	CategoryImageCreation   Category = "image_creation"
	CategoryVideoEditing    Category = "video_editing"
	CategoryTextGeneration  Category = "text_generation"
	CategoryAutomation      Category = "automation"
	CategoryDataAnalysis    Category = "data_analysis"
	CategoryGaming          Category = "gaming"
	CategoryCodeGeneration  Category = "code_generation"
)

// PriceModel describes how a tool is priced.
type PriceModel string

const (
	PriceModelFree         PriceModel = "free"
	PriceModelSubscription PriceModel = "subscription"
	PriceModelOneTime      PriceModel = "one_time"
	PriceModelFreemium     PriceModel = "freemium"
)

// Platform is the primary delivery channel of a tool.
type Platform string

const (
	PlatformWeb              Platform = "web"
	PlatformAPI              Platform = "api"
	PlatformDesktop          Platform = "desktop"
	PlatformMobile           Platform = "mobile"
	PlatformBrowserExtension Platform = "browser_extension"
)

// Categories returns all valid categories in declaration order.
func Categories() []Category {
	return []Category{
		CategoryMusicGeneration,
		CategoryImageCreation,
		CategoryVideoEditing,
		CategoryTextGeneration,
		CategoryAutomation,
		CategoryDataAnalysis,
		CategoryGaming,
		CategoryCodeGeneration,
	}
}

// PriceModels returns all valid price models in declaration order.
func PriceModels() []PriceModel {
	return []PriceModel{
		PriceModelFree,
		PriceModelSubscription,
		PriceModelOneTime,
		PriceModelFreemium,
	}
}

// Platforms returns all valid platforms in declaration order.
func Platforms() []Platform {
	return []Platform{
		PlatformWeb,
		PlatformAPI,
		PlatformDesktop,
		PlatformMobile,
		PlatformBrowserExtension,
	}
}

// ParseCategory validates a raw category value against the closed set.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", raw)
}

// ParsePriceModel validates a raw price model value against the closed set.
func ParsePriceModel(raw string) (PriceModel, error) {
	for _, pm := range PriceModels() {
		if string(pm) == raw {
			return pm, nil
		}
	}
	return "", fmt.Errorf("invalid price model %q", raw)
}

// ParsePlatform validates a raw platform value against the closed set.
func ParsePlatform(raw string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q", raw)
}

// EnumOption pairs an enum value with its human-readable label, as served
// by the category/price-model/platform listing endpoints.
type EnumOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CategoryOptions returns the static value/label listing for categories.
func CategoryOptions() []EnumOption {
	options := make([]EnumOption, 0, len(Categories()))
	for _, c := range Categories() {
		options = append(options, EnumOption{Value: string(c), Label: enumLabel(string(c))})
	}
	return options
}

// PriceModelOptions returns the static value/label listing for price models.
func PriceModelOptions() []EnumOption {
	options := make([]EnumOption, 0, len(PriceModels()))
	for _, pm := range PriceModels() {
		options = append(options, EnumOption{Value: string(pm), Label: enumLabel(string(pm))})
	}
	return options
}

// PlatformOptions returns the static value/label listing for platforms.
func PlatformOptions() []EnumOption {
	options := make([]EnumOption, 0, len(Platforms()))
	for _, p := range Platforms() {
		options = append(options, EnumOption{Value: string(p), Label: enumLabel(string(p))})
	}
	return options
}

// enumLabel turns "music_generation" into "Music Generation".
func enumLabel(value string) string {
	words := strings.Split(value, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
