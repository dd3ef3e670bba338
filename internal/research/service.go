package research

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dougal-McGuire/api-research/internal/models"
	"github.com/Dougal-McGuire/api-research/internal/prompt"
)

// defaultModel is the known-good web-search-capable model substituted when a
// requested id cannot browse the web and no explicit fallback is configured.
const defaultModel = "o1"

// webSearchModels is the allowlist of provider models that support
// web-search-augmented generation, with their display descriptions.
var webSearchModels = []models.ModelInfo{
	{ID: "gpt-4o-mini-search-preview", Name: "gpt-4o-mini-search-preview", Description: "Fast Web Search"},
	{ID: "gpt-4o-search-preview", Name: "gpt-4o-search-preview", Description: "Advanced Web Search"},
	{ID: "o1", Name: "o1", Description: "Latest Reasoning + Web Search"},
	{ID: "o1-mini", Name: "o1-mini", Description: "Reasoning + Web Search"},
	{ID: "o1-preview", Name: "o1-preview", Description: "Deep Reasoning + Web Search"},
	{ID: "o3-mini", Name: "o3-mini", Description: "Next-Gen Reasoning + Web Search"},
}

// ModelProvider is the remote reasoning-model API the orchestrator calls.
type ModelProvider interface {
	ChatCompletion(ctx context.Context, model, prompt string) (string, error)
	ListModels(ctx context.Context) ([]Model, error)
}

// ArtifactInfo describes one stored artifact object.
type ArtifactInfo struct {
	Key  string
	Size int64
}

// ArtifactStore holds downloaded regulatory documents keyed by
// "<slug>/<filename>".
type ArtifactStore interface {
	List(ctx context.Context, prefix string) ([]ArtifactInfo, error)
	Download(ctx context.Context, key string) ([]byte, string, error)
	RemoveAll(ctx context.Context, prefix string) error
}

// ModelCache caches the filtered model list between provider calls.
type ModelCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, data []byte)
}

// Service orchestrates one research request: prompt assembly, the provider
// call, and result shaping. It holds no per-request state.
type Service struct {
	provider  ModelProvider
	prompts   *prompt.Store
	artifacts ArtifactStore // optional
	cache     ModelCache    // optional
	fallbacks map[string]string
	log       *zap.Logger
}

func NewService(provider ModelProvider, prompts *prompt.Store, artifacts ArtifactStore, cache ModelCache, fallbacks map[string]string, log *zap.Logger) *Service {
	return &Service{
		provider:  provider,
		prompts:   prompts,
		artifacts: artifacts,
		cache:     cache,
		fallbacks: fallbacks,
		log:       log,
	}
}

// Search runs one research attempt for a substance. Provider failures and
// empty responses are folded into the SearchResult; the returned error is
// non-nil only for invalid input (400) or a missing template (500).
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (models.SearchResult, error) {
	substance := strings.TrimSpace(req.APIName)
	if substance == "" {
		return models.SearchResult{}, ErrInvalidInput
	}

	requestID := uuid.NewString()
	start := time.Now()

	requested := req.Model
	if requested == "" {
		requested = defaultModel
	}
	resolved, fallbackNote := s.resolveModel(requested)

	template, err := s.prompts.Load()
	if err != nil {
		return models.SearchResult{}, err
	}
	if !prompt.HasPlaceholder(template) {
		s.log.Warn("prompt template contains no substitution placeholder",
			zap.String("path", s.prompts.Path()))
	}
	formatted := prompt.Format(template, substance)

	s.log.Info("starting research",
		zap.String("request_id", requestID),
		zap.String("substance", substance),
		zap.String("model", resolved))

	content, err := s.provider.ChatCompletion(ctx, resolved, formatted)
	elapsed := time.Since(start)

	debugInfo := func() map[string]any {
		if !req.Debug {
			return nil
		}
		info := map[string]any{
			"request_id":      requestID,
			"template_length": len(template),
			"prompt_length":   len(formatted),
			"response_length": len(content),
			"model_requested": requested,
			"model_resolved":  resolved,
			"elapsed_ms":      elapsed.Milliseconds(),
		}
		if fallbackNote != "" {
			info["fallback"] = fallbackNote
		}
		if err != nil {
			info["error"] = err.Error()
		}
		return info
	}

	if err != nil {
		s.log.Error("research failed",
			zap.String("request_id", requestID),
			zap.String("substance", substance),
			zap.Error(err))
		return models.SearchResult{
			Status:    models.StatusError,
			Substance: substance,
			ModelUsed: resolved,
			Message:   "Research failed: the model provider could not be reached or rejected the request.",
			DebugInfo: debugInfo(),
		}, nil
	}

	if strings.TrimSpace(content) == "" {
		s.log.Warn("research returned no content",
			zap.String("request_id", requestID),
			zap.String("substance", substance))
		return models.SearchResult{
			Status:    models.StatusEmpty,
			Substance: substance,
			ModelUsed: resolved,
			Message:   "The model completed without generating any research content.",
			DebugInfo: debugInfo(),
		}, nil
	}

	result := models.SearchResult{
		Status:          models.StatusCompleted,
		Substance:       substance,
		ResearchContent: content,
		ModelUsed:       resolved,
		DebugInfo:       debugInfo(),
	}

	// Previously downloaded documents for this substance, if any, ride along
	// as artifact links. This is a store listing, never a network call.
	slug := Slugify(substance)
	if links := s.artifactLinks(ctx, slug); len(links) > 0 {
		result.Artifacts = links
		result.DownloadAllURL = "/api/research/" + slug + "/download-all"
	}

	s.log.Info("research completed",
		zap.String("request_id", requestID),
		zap.String("substance", substance),
		zap.Int("response_length", len(content)),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// resolveModel maps a requested model id onto a web-search-capable one. The
// fallback table is configuration, not code, so policy changes (a new
// degraded variant, say) need no rebuild.
func (s *Service) resolveModel(requested string) (resolved, note string) {
	for _, m := range webSearchModels {
		if m.ID == requested {
			return requested, ""
		}
	}
	if to, ok := s.fallbacks[requested]; ok {
		return to, fmt.Sprintf("%s is not web-search-capable; substituted %s", requested, to)
	}
	return defaultModel, fmt.Sprintf("%s is not web-search-capable; substituted %s", requested, defaultModel)
}

// Models returns the provider's model list filtered to web-search-capable
// entries, consulting the cache when one is configured.
func (s *Service) Models(ctx context.Context) ([]models.ModelInfo, error) {
	if s.cache != nil {
		if data, ok := s.cache.Get(ctx); ok {
			var cached []models.ModelInfo
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	available, err := s.provider.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	offered := make(map[string]bool, len(available))
	for _, m := range available {
		offered[m.ID] = true
	}

	filtered := make([]models.ModelInfo, 0, len(webSearchModels))
	for _, m := range webSearchModels {
		if offered[m.ID] {
			filtered = append(filtered, m)
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(filtered); err == nil {
			s.cache.Set(ctx, data)
		}
	}
	return filtered, nil
}

// Files lists the stored artifacts for a substance slug.
func (s *Service) Files(ctx context.Context, slug string) ([]models.FileInfo, error) {
	if s.artifacts == nil {
		return nil, nil
	}
	infos, err := s.artifacts.List(ctx, slug+"/")
	if err != nil {
		return nil, err
	}
	files := make([]models.FileInfo, 0, len(infos))
	for _, info := range infos {
		name := path.Base(info.Key)
		files = append(files, models.FileInfo{
			Filename:  name,
			URL:       "/api/research/" + slug + "/files/" + name,
			SizeBytes: info.Size,
		})
	}
	return files, nil
}

func (s *Service) artifactLinks(ctx context.Context, slug string) []models.ArtifactLink {
	files, err := s.Files(ctx, slug)
	if err != nil {
		s.log.Warn("artifact listing failed", zap.String("slug", slug), zap.Error(err))
		return nil
	}
	links := make([]models.ArtifactLink, 0, len(files))
	for _, f := range files {
		links = append(links, models.ArtifactLink{
			Title:    strings.TrimSuffix(f.Filename, path.Ext(f.Filename)),
			Filename: f.Filename,
			Source:   "archive",
			URL:      f.URL,
		})
	}
	return links
}

// Slugify normalizes a substance name into a storage path segment:
// lowercase, with every non-alphanumeric run collapsed to one hyphen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
