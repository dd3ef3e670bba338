package research

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Dougal-McGuire/api-research/internal/models"
	"github.com/Dougal-McGuire/api-research/internal/prompt"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}

// Handler holds the research HTTP handlers.
type Handler struct {
	service *Service
	prompts *prompt.Store
	log     *zap.Logger
}

func NewHandler(service *Service, prompts *prompt.Store, log *zap.Logger) *Handler {
	return &Handler{service: service, prompts: prompts, log: log}
}

// Routes mounts all research endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/search", h.Search)
	r.Get("/models", h.Models)
	r.Get("/health", h.Health)
	r.Get("/template", h.GetTemplate)
	r.Put("/template", h.UpdateTemplate)
	r.Get("/status/{slug}", h.Status)
	r.Get("/{slug}/files", h.Files)
	r.Get("/{slug}/files/{filename}", h.DownloadFile)
	r.Get("/{slug}/download-all", h.DownloadAll)
	r.Delete("/{slug}", h.Delete)
}

// Search runs one research request.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Search(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "API name is required")
		return
	case errors.Is(err, prompt.ErrTemplateNotFound):
		h.log.Error("template missing", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "research prompt template is not available")
		return
	case err != nil:
		h.log.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "research failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Models lists the web-search-capable models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Models(r.Context())
	if err != nil {
		h.log.Error("model listing failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch models: %v", err))
		return
	}
	if list == nil {
		list = []models.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, models.ModelsResponse{Models: list})
}

// Health reports whether the service is configured to run a search.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.prompts.Load(); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "unhealthy",
			"message": "research prompt template is not available",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "research service is operational",
	})
}

// GetTemplate returns the current prompt template.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := h.prompts.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "research prompt template is not available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"template": template})
}

type templateUpdateRequest struct {
	Template string `json:"template"`
}

// UpdateTemplate replaces the prompt template; the change takes effect on
// the next search.
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Template == "" {
		writeError(w, http.StatusBadRequest, "template text is required")
		return
	}
	if err := h.prompts.Update(req.Template); err != nil {
		h.log.Error("template update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}
	h.log.Info("prompt template updated", zap.Int("length", len(req.Template)))
	writeJSON(w, http.StatusOK, map[string]string{"message": "template updated"})
}

// slugParam extracts and validates the {slug} URL parameter. Slugs are used
// as storage path segments, so only values Slugify itself could have
// produced are accepted; anything else (in particular "..") is rejected
// before it reaches a store.
func slugParam(r *http.Request) (string, bool) {
	slug := chi.URLParam(r, "slug")
	return slug, slug != "" && Slugify(slug) == slug
}

// Files lists the stored artifacts for a substance slug.
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid API slug")
		return
	}
	files, err := h.service.Files(r.Context(), slug)
	if err != nil {
		h.log.Error("file listing failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}
	if files == nil {
		files = []models.FileInfo{}
	}
	writeJSON(w, http.StatusOK, models.FilesListResponse{
		APISlug:        slug,
		Files:          files,
		DownloadAllURL: "/api/research/" + slug + "/download-all",
	})
}

// DownloadFile streams one stored artifact.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid API slug")
		return
	}
	filename := chi.URLParam(r, "filename")
	if h.service.artifacts == nil || filename == ".." || strings.Contains(filename, "/") {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	data, contentType, err := h.service.artifacts.Download(r.Context(), slug+"/"+filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// DownloadAll bundles every stored PDF for a slug into one ZIP archive.
func (h *Handler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid API slug")
		return
	}
	files, err := h.service.Files(r.Context(), slug)
	if err != nil {
		h.log.Error("file listing failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create ZIP file")
		return
	}

	var pdfs []models.FileInfo
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
			pdfs = append(pdfs, f)
		}
	}
	if len(pdfs) == 0 {
		writeError(w, http.StatusNotFound, "no PDF files found for this API")
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range pdfs {
		data, _, err := h.service.artifacts.Download(r.Context(), slug+"/"+f.Filename)
		if err != nil {
			h.log.Warn("skipping unreadable artifact",
				zap.String("slug", slug), zap.String("filename", f.Filename), zap.Error(err))
			continue
		}
		entry, err := zw.Create(f.Filename)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create ZIP file")
			return
		}
		entry.Write(data)
	}
	if err := zw.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create ZIP file")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slug+"_documents.zip"))
	w.Write(buf.Bytes())
}

// Status summarizes artifact availability for a slug.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid API slug")
		return
	}
	files, err := h.service.Files(r.Context(), slug)
	if err != nil {
		h.log.Error("file listing failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read status")
		return
	}

	status := "completed"
	if len(files) == 0 {
		status = "not_found"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"api_slug":   slug,
		"file_count": len(files),
	})
}

// Delete removes all stored artifacts for a slug.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid API slug")
		return
	}
	if h.service.artifacts == nil {
		writeError(w, http.StatusNotFound, "no files found for this API")
		return
	}
	files, err := h.service.Files(r.Context(), slug)
	if err != nil || len(files) == 0 {
		writeError(w, http.StatusNotFound, "no files found for this API")
		return
	}
	if err := h.service.artifacts.RemoveAll(r.Context(), slug+"/"); err != nil {
		h.log.Error("artifact delete failed", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("All files for %s have been deleted", slug),
	})
}
