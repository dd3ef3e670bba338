package research

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dougal-McGuire/api-research/internal/models"
	"github.com/Dougal-McGuire/api-research/internal/prompt"
)

// --- stubs ---

type stubProvider struct {
	content    string
	chatErr    error
	chatModel  string // records the model used for the completion call
	chatPrompt string
	models     []Model
	listErr    error
}

func (p *stubProvider) ChatCompletion(_ context.Context, model, prompt string) (string, error) {
	p.chatModel = model
	p.chatPrompt = prompt
	return p.content, p.chatErr
}

func (p *stubProvider) ListModels(_ context.Context) ([]Model, error) {
	return p.models, p.listErr
}

type stubArtifacts struct {
	infos []ArtifactInfo
}

func (s *stubArtifacts) List(_ context.Context, prefix string) ([]ArtifactInfo, error) {
	return s.infos, nil
}

func (s *stubArtifacts) Download(_ context.Context, key string) ([]byte, string, error) {
	return []byte("%PDF-1.4 stub"), "application/pdf", nil
}

func (s *stubArtifacts) RemoveAll(_ context.Context, prefix string) error {
	s.infos = nil
	return nil
}

type memoryCache struct {
	data []byte
}

func (c *memoryCache) Get(_ context.Context) ([]byte, bool) { return c.data, c.data != nil }
func (c *memoryCache) Set(_ context.Context, data []byte)   { c.data = data }

func testPrompts(t *testing.T, text string) *prompt.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return prompt.NewStore(path)
}

func newTestService(t *testing.T, provider ModelProvider, artifacts ArtifactStore, cache ModelCache) *Service {
	t.Helper()
	prompts := testPrompts(t, "Research {substance_name} thoroughly.")
	return NewService(provider, prompts, artifacts, cache, map[string]string{"o1-pro": "o1"}, zap.NewNop())
}

// --- Search ---

func TestSearchCompleted(t *testing.T) {
	provider := &stubProvider{content: "# Ibuprofen\n\nApproved 2001-01-01."}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "ibuprofen", Model: "o1"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, result.Status)
	assert.Equal(t, "ibuprofen", result.Substance)
	assert.Equal(t, "o1", result.ModelUsed)
	assert.Equal(t, "# Ibuprofen\n\nApproved 2001-01-01.", result.ResearchContent)
	assert.Nil(t, result.DebugInfo)
	assert.Equal(t, "Research ibuprofen thoroughly.", provider.chatPrompt)
}

func TestSearchTrimsSubstanceName(t *testing.T) {
	provider := &stubProvider{content: "ok"}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "  aspirin  ", Model: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "aspirin", result.Substance)
}

func TestSearchInvalidInput(t *testing.T) {
	svc := newTestService(t, &stubProvider{}, nil, nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), models.SearchRequest{APIName: name})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestSearchTemplateNotFound(t *testing.T) {
	prompts := prompt.NewStore(filepath.Join(t.TempDir(), "missing.txt"))
	svc := NewService(&stubProvider{}, prompts, nil, nil, nil, zap.NewNop())

	_, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin"})
	require.ErrorIs(t, err, prompt.ErrTemplateNotFound)
}

func TestSearchModelFallback(t *testing.T) {
	provider := &stubProvider{content: "ok"}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{
		APIName: "aspirin", Model: "o1-pro", Debug: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "o1", result.ModelUsed)
	assert.Equal(t, "o1", provider.chatModel)
	require.NotNil(t, result.DebugInfo)
	assert.Contains(t, result.DebugInfo["fallback"], "o1-pro")
}

func TestSearchUnknownModelFallsBackToDefault(t *testing.T) {
	provider := &stubProvider{content: "ok"}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin", Model: "gpt-3.5-turbo"})
	require.NoError(t, err)
	assert.Equal(t, "o1", result.ModelUsed)
}

func TestSearchProviderError(t *testing.T) {
	provider := &stubProvider{chatErr: &ProviderError{Path: "/chat/completions", Err: errors.New("context deadline exceeded")}}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin", Model: "o1", Debug: true})
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, result.ResearchContent)
	require.NotNil(t, result.DebugInfo)
	assert.Contains(t, result.DebugInfo["error"], "context deadline exceeded")
}

func TestSearchProviderErrorWithoutDebugHidesDetail(t *testing.T) {
	provider := &stubProvider{chatErr: &ProviderError{Path: "/chat/completions", StatusCode: 429, Body: "quota exceeded"}}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin", Model: "o1"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, result.Status)
	assert.NotContains(t, result.Message, "quota exceeded")
	assert.Nil(t, result.DebugInfo)
}

func TestSearchEmptyResponse(t *testing.T) {
	provider := &stubProvider{content: "  \n\t "}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin", Model: "o1"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusEmpty, result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestSearchDebugInfoFields(t *testing.T) {
	provider := &stubProvider{content: "report text"}
	svc := newTestService(t, provider, nil, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "aspirin", Model: "o1", Debug: true})
	require.NoError(t, err)

	require.NotNil(t, result.DebugInfo)
	for _, key := range []string{"request_id", "template_length", "prompt_length", "response_length", "model_resolved", "elapsed_ms"} {
		assert.Contains(t, result.DebugInfo, key)
	}
	assert.NotContains(t, result.DebugInfo, "fallback")
}

func TestSearchAttachesArtifactLinks(t *testing.T) {
	artifacts := &stubArtifacts{infos: []ArtifactInfo{
		{Key: "ibuprofen/epar-assessment.pdf", Size: 1024},
	}}
	provider := &stubProvider{content: "report"}
	svc := newTestService(t, provider, artifacts, nil)

	result, err := svc.Search(context.Background(), models.SearchRequest{APIName: "Ibuprofen", Model: "o1"})
	require.NoError(t, err)

	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, "epar-assessment.pdf", result.Artifacts[0].Filename)
	assert.Equal(t, "epar-assessment", result.Artifacts[0].Title)
	assert.Equal(t, "/api/research/ibuprofen/files/epar-assessment.pdf", result.Artifacts[0].URL)
	assert.Equal(t, "/api/research/ibuprofen/download-all", result.DownloadAllURL)
}

// --- Models ---

func TestModelsFiltersToWebSearchCapable(t *testing.T) {
	provider := &stubProvider{models: []Model{
		{ID: "gpt-3.5-turbo"}, {ID: "o1"}, {ID: "gpt-4o-search-preview"}, {ID: "whisper-1"},
	}}
	svc := newTestService(t, provider, nil, nil)

	list, err := svc.Models(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "gpt-4o-search-preview", list[0].ID)
	assert.Equal(t, "Advanced Web Search", list[0].Description)
	assert.Equal(t, "o1", list[1].ID)
}

func TestModelsUsesCache(t *testing.T) {
	provider := &stubProvider{models: []Model{{ID: "o1"}}}
	cache := &memoryCache{}
	svc := newTestService(t, provider, nil, cache)

	first, err := svc.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Provider failures no longer matter once the list is cached.
	provider.listErr = errors.New("provider down")
	second, err := svc.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestModelsProviderError(t *testing.T) {
	provider := &stubProvider{listErr: &ProviderError{Path: "/models", StatusCode: 401, Body: "bad key"}}
	svc := newTestService(t, provider, nil, nil)

	_, err := svc.Models(context.Background())
	require.Error(t, err)
}

// --- Slugify ---

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ibuprofen", "ibuprofen"},
		{"Acetylsalicylic Acid", "acetylsalicylic-acid"},
		{"  Co-trimoxazole  ", "co-trimoxazole"},
		{"név/with:weird chars!!", "n-v-with-weird-chars"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
