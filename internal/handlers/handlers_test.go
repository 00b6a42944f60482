package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/aitoolshub/apiserver/internal/services"
	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

const testJWTSecret = "handler-test-secret"

// fakeStore backs all repositories with in-process maps so handler tests
// exercise the full router, middleware, and service stack without a
// database.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]types.User
	tools   map[string]types.Tool
	order   []string
	reviews []types.Review
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]types.User),
		tools: make(map[string]types.Tool),
	}
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (types.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tool, ok := f.tools[id]
	if !ok {
		return types.Tool{}, store.ErrNotFound
	}
	return tool, nil
}

func (f *fakeStore) CreateTool(ctx context.Context, tool types.Tool) (types.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tools[tool.ID] = tool
	f.order = append(f.order, tool.ID)
	return tool, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tools), nil
}

func (f *fakeStore) SetImageKey(ctx context.Context, id, imageKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tool, ok := f.tools[id]
	if !ok {
		return store.ErrNotFound
	}
	tool.ImageKey = imageKey
	f.tools[id] = tool
	return nil
}

func (f *fakeStore) List(ctx context.Context, filter store.ToolFilter, offset, limit int) ([]types.Tool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matches := make([]types.Tool, 0)
	for _, id := range f.order {
		tool := f.tools[id]
		if filter.Category != "" && tool.Category != filter.Category {
			continue
		}
		if filter.PriceModel != "" && tool.PriceModel != filter.PriceModel {
			continue
		}
		if filter.Platform != "" && tool.Platform != filter.Platform {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(tool.Name), needle) &&
				!strings.Contains(strings.ToLower(tool.Description), needle) {
				continue
			}
		}
		matches = append(matches, tool)
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

func (f *fakeStore) CreateWithAggregate(ctx context.Context, review types.Review, observedCount int, newRating float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tool, ok := f.tools[review.ToolID]
	if !ok {
		return store.ErrNotFound
	}
	if tool.ReviewCount != observedCount {
		return store.ErrConflict
	}

	tool.ReviewCount++
	tool.Rating = newRating
	f.tools[review.ToolID] = tool

	if user, ok := f.users[review.UserID]; ok {
		review.Username = user.Username
	}
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeStore) ListByToolID(ctx context.Context, toolID string) ([]types.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reviews := make([]types.Review, 0)
	for _, review := range f.reviews {
		if review.ToolID == toolID {
			reviews = append(reviews, review)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// toolRepoAdapter renames CreateTool back to the repository's Create so the
// same fakeStore can satisfy both the user and tool repository interfaces.
type toolRepoAdapter struct {
	*fakeStore
}

func (a toolRepoAdapter) Create(ctx context.Context, tool types.Tool) (types.Tool, error) {
	return a.CreateTool(ctx, tool)
}

func newTestAPI(t *testing.T) (*chi.Mux, *fakeStore) {
	t.Helper()

	fs := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tools := toolRepoAdapter{fs}

	catalog := services.NewCatalogService(tools, logger)
	reviewSvc := services.NewReviewService(tools, fs, nil, logger)
	userSvc := services.NewUserService(fs)
	seedSvc := services.NewSeedService(tools, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		AuthRouter(r, userSvc, testJWTSecret)
		ToolRouter(r, catalog, nil, RequireAuth(testJWTSecret))
		ReviewRouter(r, reviewSvc, RequireAuth(testJWTSecret))
		SeedRouter(r, seedSvc)
	})
	return router, fs
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func registerUser(t *testing.T, router http.Handler, username string) (string, types.User) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/register", "", RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON[AuthResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func createTool(t *testing.T, router http.Handler, token string, req CreateToolRequest) types.Tool {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/tools", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON[types.Tool](t, rec)
}
