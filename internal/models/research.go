package models

// Search status values returned in SearchResult.Status.
const (
	StatusCompleted = "completed"
	StatusEmpty     = "empty"
	StatusError     = "error"
)

// SearchRequest is the JSON body for POST /api/research/search.
type SearchRequest struct {
	APIName string `json:"api_name"`
	Debug   bool   `json:"debug"`
	Model   string `json:"model"`
}

// ArtifactLink points at a stored regulatory document for a substance.
type ArtifactLink struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// SearchResult is the single response produced for one SearchRequest.
type SearchResult struct {
	Status          string         `json:"status"`
	Substance       string         `json:"substance"`
	ResearchContent string         `json:"research_content,omitempty"`
	ModelUsed       string         `json:"model_used,omitempty"`
	Message         string         `json:"message,omitempty"`
	Artifacts       []ArtifactLink `json:"artifacts,omitempty"`
	DownloadAllURL  string         `json:"download_all_url,omitempty"`
	DebugInfo       map[string]any `json:"debug_info,omitempty"`
}

// ModelInfo describes one web-search-capable model offered to the client.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModelsResponse is the body of GET /api/research/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// FileInfo describes one stored artifact in a files listing.
type FileInfo struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

// FilesListResponse is the body of GET /api/research/{slug}/files.
type FilesListResponse struct {
	APISlug        string     `json:"api_slug"`
	Files          []FileInfo `json:"files"`
	DownloadAllURL string     `json:"download_all_url"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
