package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

// memStore is an in-memory stand-in for the SQL repositories, preserving
// their contracts: stable insertion-order listings, guarded aggregate
// updates, newest-first review listings.
type memStore struct {
	mu      sync.Mutex
	tools   map[string]types.Tool
	order   []string
	reviews []types.Review
}

func newMemStore() *memStore {
	return &memStore{tools: make(map[string]types.Tool)}
}

func (m *memStore) Get(ctx context.Context, id string) (types.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tool, ok := m.tools[id]
	if !ok {
		return types.Tool{}, store.ErrNotFound
	}
	return tool, nil
}

func (m *memStore) Create(ctx context.Context, tool types.Tool) (types.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools[tool.ID] = tool
	m.order = append(m.order, tool.ID)
	return tool, nil
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tools), nil
}

func (m *memStore) SetImageKey(ctx context.Context, id, imageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tool, ok := m.tools[id]
	if !ok {
		return store.ErrNotFound
	}
	tool.ImageKey = imageKey
	m.tools[id] = tool
	return nil
}

func (m *memStore) List(ctx context.Context, filter store.ToolFilter, offset, limit int) ([]types.Tool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]types.Tool, 0)
	for _, id := range m.order {
		tool := m.tools[id]
		if matchesFilter(tool, filter) {
			matches = append(matches, tool)
		}
	}

	total := len(matches)
	if offset >= total {
		return []types.Tool{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func matchesFilter(tool types.Tool, filter store.ToolFilter) bool {
	if filter.Category != "" && tool.Category != filter.Category {
		return false
	}
	if filter.PriceModel != "" && tool.PriceModel != filter.PriceModel {
		return false
	}
	if filter.Platform != "" && tool.Platform != filter.Platform {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		name := strings.ToLower(tool.Name)
		description := strings.ToLower(tool.Description)
		if !strings.Contains(name, needle) && !strings.Contains(description, needle) {
			return false
		}
	}
	return true
}

func (m *memStore) CreateWithAggregate(ctx context.Context, review types.Review, observedCount int, newRating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tool, ok := m.tools[review.ToolID]
	if !ok {
		return store.ErrNotFound
	}
	if tool.ReviewCount != observedCount {
		return store.ErrConflict
	}

	tool.ReviewCount++
	tool.Rating = newRating
	m.tools[review.ToolID] = tool
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *memStore) ListByToolID(ctx context.Context, toolID string) ([]types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reviews := make([]types.Review, 0)
	for _, review := range m.reviews {
		if review.ToolID == toolID {
			reviews = append(reviews, review)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}
