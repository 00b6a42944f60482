package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aitoolshub/apiserver/internal/services"
)

// SeedHandler exposes idempotent sample-data seeding over HTTP.
type SeedHandler struct {
	seeder *services.SeedService
}

// NewSeedHandler constructs a handler with the provided service.
func NewSeedHandler(seeder *services.SeedService) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedRouter registers the seed route on the given router.
func SeedRouter(r chi.Router, seeder *services.SeedService) {
	handler := NewSeedHandler(seeder)
	r.Post("/seed-data", handler.SeedData)
}

func (h *SeedHandler) SeedData(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.seeder.SeedIfEmpty(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to seed data")
		return
	}

	message := "catalog already seeded"
	if seeded > 0 {
		message = fmt.Sprintf("seeded %d tools", seeded)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"seeded":  seeded,
	})
}
