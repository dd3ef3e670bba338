// Package prompt loads the research prompt template and fills in the
// substance placeholder. The template lives in a plain text file so that
// deployments can edit it without a rebuild; it is re-read on every use.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Placeholder is the substitution token recognized in the template.
const Placeholder = "{substance_name}"

// ErrTemplateNotFound indicates the template file is missing or unreadable.
// This is a deployment defect and is surfaced to callers as a server error.
var ErrTemplateNotFound = errors.New("prompt template not found")

// Store reads and writes the prompt template file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the template file location.
func (s *Store) Path() string { return s.path }

// Load reads the current template text.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, s.path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, s.path, err)
	}
	return string(data), nil
}

// Update replaces the template file contents.
func (s *Store) Update(text string) error {
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write template %s: %w", s.path, err)
	}
	return nil
}

// Format loads the template and replaces every placeholder occurrence with
// the trimmed substance name. A template without the placeholder is not an
// error; Format then returns the template unchanged and callers should log
// a configuration warning (see HasPlaceholder).
func (s *Store) Format(substanceName string) (string, error) {
	template, err := s.Load()
	if err != nil {
		return "", err
	}
	return Format(template, substanceName), nil
}

// Format replaces every placeholder occurrence in template with the trimmed
// substance name.
func Format(template, substanceName string) string {
	return strings.ReplaceAll(template, Placeholder, strings.TrimSpace(substanceName))
}

// HasPlaceholder reports whether the template contains at least one
// substitution token.
func HasPlaceholder(template string) bool {
	return strings.Contains(template, Placeholder)
}
