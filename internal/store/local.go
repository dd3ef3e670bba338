package store

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dougal-McGuire/api-research/internal/research"
)

// LocalStore keeps research artifacts on the local filesystem under
// "<root>/<slug>/<filename>", the layout used by legacy deployments that
// served a static directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("artifact dir %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// resolve maps a "<slug>/<filename>" key (or "<slug>/" prefix) onto a path
// under the store root. Keys whose cleaned path would escape the root, such
// as anything containing "..", are rejected.
func (s *LocalStore) resolve(key string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSuffix(key, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return filepath.Join(s.root, rel), nil
}

// List returns the files stored under the given "<slug>/" prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]research.ArtifactInfo, error) {
	dir, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var infos []research.ArtifactInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, research.ArtifactInfo{
			Key:  strings.TrimSuffix(prefix, "/") + "/" + entry.Name(),
			Size: fi.Size(),
		})
	}
	return infos, nil
}

// Download reads one stored file; the content type is derived from the
// file extension.
func (s *LocalStore) Download(_ context.Context, key string) ([]byte, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// RemoveAll deletes the slug directory and everything in it.
func (s *LocalStore) RemoveAll(_ context.Context, prefix string) error {
	dir, err := s.resolve(prefix)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
