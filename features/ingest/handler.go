package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"tubeqa/internal/middleware"
	"tubeqa/internal/transcript"
)

var validate = validator.New()

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	VideoURL string `json:"video_url" validate:"required"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.writeError(r.Context(), w, "VALIDATION_ERROR", "video_url is required", http.StatusBadRequest)
		return
	}

	messageID, videoID, err := h.service.Submit(r.Context(), req.VideoURL)
	if err != nil {
		var fe *transcript.FetchError
		if errors.As(err, &fe) && fe.Kind == transcript.KindInvalidLocator {
			h.writeError(r.Context(), w, "INVALID_LOCATOR", "not a recognizable YouTube video URL or id", http.StatusBadRequest)
			return
		}
		slog.ErrorContext(r.Context(), "failed to enqueue ingestion job", "error", err, "video_url", req.VideoURL)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"success":    true,
		"message":    "Video submitted for ingestion",
		"message_id": messageID,
		"video_id":   videoID,
	})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	deleted, syncJobID, err := h.service.Clear(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to clear corpus", "error", err, "deleted_before_failure", deleted)
		h.writeError(r.Context(), w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"message":          fmt.Sprintf("All videos cleared (%d files deleted)", deleted),
		"deleted_count":    deleted,
		"ingestion_job_id": syncJobID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
