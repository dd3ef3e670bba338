package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, text string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return NewStore(path)
}

func TestFormatReplacesAllPlaceholders(t *testing.T) {
	s := writeTemplate(t, "Research {substance_name}. Focus on {substance_name} approvals.")

	got, err := s.Format("  Ibuprofen ")
	require.NoError(t, err)

	assert.NotContains(t, got, Placeholder)
	assert.Equal(t, 2, strings.Count(got, "Ibuprofen"))
}

func TestFormatIsIdempotentForAGivenName(t *testing.T) {
	s := writeTemplate(t, "Report on {substance_name}.")

	first, err := s.Format("metformin")
	require.NoError(t, err)
	second := Format(first, "metformin")

	assert.Equal(t, first, second)
}

func TestFormatWithoutPlaceholderIsNoOp(t *testing.T) {
	const text = "A template that forgot its token."
	s := writeTemplate(t, text)

	got, err := s.Format("aspirin")
	require.NoError(t, err)

	assert.Equal(t, text, got)
	assert.False(t, HasPlaceholder(text))
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.txt"))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = s.Format("aspirin")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUpdateTakesEffectOnNextLoad(t *testing.T) {
	s := writeTemplate(t, "old {substance_name}")

	require.NoError(t, s.Update("new {substance_name}"))

	got, err := s.Format("x")
	require.NoError(t, err)
	assert.Equal(t, "new x", got)
}
