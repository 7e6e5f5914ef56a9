package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/inkboard/internal/models"
	"github.com/hoanghai1803/inkboard/internal/storage"
)

// GenerationLog reads the generation audit log.
type GenerationLog interface {
	GetGeneration(ctx context.Context, id string) (*models.Generation, error)
	GetRecentGenerations(ctx context.Context, operation string, limit int) ([]models.Generation, error)
}

// ListGenerations handles GET /api/generations?limit=N&operation=op. The
// log must be nil when storage is disabled.
func ListGenerations(log GenerationLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log == nil {
			writeError(w, http.StatusServiceUnavailable, storage.ErrDisabled.Error())
			return
		}

		limit, err := parseLimit(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		gens, err := log.GetRecentGenerations(r.Context(), r.URL.Query().Get("operation"), limit)
		if err != nil {
			slog.Error("failed to list generations", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list generations")
			return
		}
		writeData(w, http.StatusOK, gens)
	}
}

// GetGeneration handles GET /api/generations/{id}.
func GetGeneration(log GenerationLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log == nil {
			writeError(w, http.StatusServiceUnavailable, storage.ErrDisabled.Error())
			return
		}

		id := chi.URLParam(r, "id")
		gen, err := log.GetGeneration(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Generation not found")
				return
			}
			slog.Error("failed to get generation", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get generation")
			return
		}
		writeData(w, http.StatusOK, gen)
	}
}
