// Package api exposes HTTP handlers for the exercise catalog service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jtylerm/PTExerciseApp/internal/auth"
	"github.com/jtylerm/PTExerciseApp/internal/domain"
	"github.com/jtylerm/PTExerciseApp/internal/matching"
)

// ImageLookup resolves an exercise name to reference images. Implementations
// must be total: every failure degrades to a not-found result.
type ImageLookup interface {
	Lookup(ctx context.Context, exerciseName string) matching.Result
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	images  ImageLookup
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, images ImageLookup) *Handler {
	return &Handler{service: service, images: images}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/exercises", h.exercises)
	mux.HandleFunc("/api/exercises/", h.exerciseByID)
	mux.HandleFunc("/api/exercise-image/", h.exerciseImage)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listExercises(w, r)
	case http.MethodPost:
		h.createExercise(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) exerciseByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/exercises/")
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise id")
		return
	}

	switch {
	case action == "favorite" && r.Method == http.MethodPatch:
		h.toggleFavorite(w, r, id)
	case action != "":
		writeError(w, http.StatusNotFound, "unknown resource")
	case r.Method == http.MethodGet:
		h.getExercise(w, r, id)
	case r.Method == http.MethodPut:
		h.updateExercise(w, r, id)
	case r.Method == http.MethodDelete:
		h.deleteExercise(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

// requireScope enforces scope checks for requests the auth middleware
// admitted. Requests without claims were let through by configuration
// (authentication disabled, or a public route) and are not re-checked here.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		return true
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return true
		}
	}
	writeError(w, http.StatusForbidden, "scope "+scopes[0]+" required")
	return false
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeCatalogRead, auth.ScopeCatalogWrite) {
		return
	}

	q := r.URL.Query()
	filter := domain.Filter{
		Search:     q.Get("search"),
		Type:       q.Get("type"),
		Muscle:     q.Get("muscle"),
		Equipment:  q.Get("equipment"),
		Difficulty: q.Get("difficulty"),
		Favorited:  q.Get("favorited") == "true",
	}
	if raw := q.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			filter.Offset = parsed
		}
	}

	records, err := h.service.ListExercises(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []domain.ExerciseRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) getExercise(w http.ResponseWriter, r *http.Request, id int64) {
	if !requireScope(w, r, auth.ScopeCatalogRead, auth.ScopeCatalogWrite) {
		return
	}

	record, err := h.service.GetExercise(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request) {
	if !requireScope(w, r, auth.ScopeCatalogWrite) {
		return
	}

	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	input := req.toInput()
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.CreateExercise(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request, id int64) {
	if !requireScope(w, r, auth.ScopeCatalogWrite) {
		return
	}

	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	input := req.toInput()
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.UpdateExercise(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) deleteExercise(w http.ResponseWriter, r *http.Request, id int64) {
	if !requireScope(w, r, auth.ScopeCatalogWrite) {
		return
	}

	if err := h.service.DeleteExercise(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request, id int64) {
	if !requireScope(w, r, auth.ScopeCatalogWrite) {
		return
	}

	record, err := h.service.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleFavoriteResponse{
		IsFavorited: record.IsFavorited,
		Exercise:    record,
	})
}

// exerciseImage serves GET /api/exercise-image/{exerciseName}. It always
// responds 200: an unloaded dataset, a miss, or a match without images all
// degrade to found:false.
func (h *Handler) exerciseImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/exercise-image/")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}

	result := h.images.Lookup(r.Context(), name)
	writeJSON(w, http.StatusOK, ImageLookupResponse{
		Images: result.Images,
		Found:  result.Found,
	})
}

// ExerciseRequest is the payload for create and update.
type ExerciseRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Muscle       string `json:"muscle"`
	Equipment    string `json:"equipment"`
	Difficulty   string `json:"difficulty"`
	Instructions string `json:"instructions"`
}

func (r ExerciseRequest) toInput() domain.ExerciseInput {
	return domain.ExerciseInput{
		Name:         r.Name,
		Type:         r.Type,
		Muscle:       r.Muscle,
		Equipment:    r.Equipment,
		Difficulty:   r.Difficulty,
		Instructions: r.Instructions,
	}
}

// ToggleFavoriteResponse pairs the new flag value with the updated record.
type ToggleFavoriteResponse struct {
	IsFavorited bool                  `json:"isFavorited"`
	Exercise    domain.ExerciseRecord `json:"exercise"`
}

// ImageLookupResponse is the image lookup contract.
type ImageLookupResponse struct {
	Images []string `json:"images"`
	Found  bool     `json:"found"`
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "exercise not found")
	case errors.Is(err, domain.ErrDuplicateName):
		writeError(w, http.StatusConflict, "an exercise with this name already exists")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
