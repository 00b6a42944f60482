package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aitoolshub/apiserver/internal/services"
	"github.com/aitoolshub/apiserver/internal/storage"
	"github.com/aitoolshub/apiserver/internal/store"
	"github.com/aitoolshub/apiserver/types"
)

const maxImageBytes = 8 << 20

// ToolHandler provides HTTP handlers for the tool catalog.
type ToolHandler struct {
	catalog *services.CatalogService
	images  *storage.ImageStore
}

// NewToolHandler constructs a handler with the provided services.
// images may be nil when no image storage backend is configured.
func NewToolHandler(catalog *services.CatalogService, images *storage.ImageStore) *ToolHandler {
	return &ToolHandler{
		catalog: catalog,
		images:  images,
	}
}

// ToolRouter registers tool catalog routes on the given router.
func ToolRouter(
	r chi.Router,
	catalog *services.CatalogService,
	images *storage.ImageStore,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewToolHandler(catalog, images)

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", handler.ListTools)
		r.With(authMiddleware).Post("/", handler.CreateTool)
		r.Route("/{toolID}", func(r chi.Router) {
			r.Get("/", handler.GetTool)
			r.Get("/image", handler.GetToolImage)
			r.With(authMiddleware).Post("/image", handler.UploadToolImage)
		})
	})

	r.Get("/categories", handler.ListCategories)
	r.Get("/price-models", handler.ListPriceModels)
	r.Get("/platforms", handler.ListPlatforms)
}

// ToolsResponse is the paginated catalog query payload.
type ToolsResponse struct {
	Tools   []types.Tool `json:"tools"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// CreateToolRequest is the JSON request body for cataloging a tool.
type CreateToolRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	PriceModel   string `json:"price_model"`
	Platform     string `json:"platform"`
	PriceDetails string `json:"price_details"`
	WebsiteURL   string `json:"website_url"`
}

func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	params := services.QueryParams{
		Search:     query.Get("search"),
		Category:   strings.TrimSpace(query.Get("category")),
		PriceModel: strings.TrimSpace(query.Get("price_model")),
		Platform:   strings.TrimSpace(query.Get("platform")),
		Page:       page,
		PerPage:    perPage,
	}

	result, err := h.catalog.Query(r.Context(), params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list tools")
		return
	}

	writeJSON(w, http.StatusOK, ToolsResponse{
		Tools:   result.Tools,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
	})
}

func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, "toolID")

	tool, err := h.catalog.Get(r.Context(), toolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tool not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tool")
		return
	}

	writeJSON(w, http.StatusOK, tool)
}

func (h *ToolHandler) CreateTool(w http.ResponseWriter, r *http.Request) {
	var req CreateToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalog.Create(r.Context(), services.CreateToolInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PriceModel:   req.PriceModel,
		Platform:     req.Platform,
		PriceDetails: req.PriceDetails,
		WebsiteURL:   req.WebsiteURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create tool")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ToolHandler) UploadToolImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	toolID := chi.URLParam(r, "toolID")
	if _, err := h.catalog.Get(r.Context(), toolID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tool not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tool")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		writeError(w, http.StatusBadRequest, "image too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, err := h.images.PutToolImage(r.Context(), toolID, file, header.Size, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	if err := h.catalog.SetImageKey(r.Context(), toolID, key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record image")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"image_key": key})
}

func (h *ToolHandler) GetToolImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	toolID := chi.URLParam(r, "toolID")
	tool, err := h.catalog.Get(r.Context(), toolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tool not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tool")
		return
	}
	if tool.ImageKey == "" {
		writeError(w, http.StatusNotFound, "tool has no image")
		return
	}

	reader, err := h.images.GetToolImage(r.Context(), toolID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	defer reader.Close()

	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func (h *ToolHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *ToolHandler) ListPriceModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.PriceModels())
}

func (h *ToolHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Platforms())
}
