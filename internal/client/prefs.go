package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Preference keys persisted across sessions.
const (
	PrefModel     = "model"
	PrefRawOutput = "raw_output"
)

// Prefs is the small key-value store the search UI persists its choices in.
// It is an interface so tests can fake it.
type Prefs interface {
	Get(key string) string
	Set(key, value string) error
}

// FilePrefs stores preferences in a YAML file via viper.
type FilePrefs struct {
	v    *viper.Viper
	path string
}

// NewFilePrefs opens (or creates) the preference file.
func NewFilePrefs(path string) (*FilePrefs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prefs dir: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("read prefs %s: %w", path, err)
			}
		}
	}
	return &FilePrefs{v: v, path: path}, nil
}

func (p *FilePrefs) Get(key string) string {
	return p.v.GetString(key)
}

func (p *FilePrefs) Set(key, value string) error {
	p.v.Set(key, value)
	if err := p.v.WriteConfigAs(p.path); err != nil {
		return fmt.Errorf("write prefs %s: %w", p.path, err)
	}
	return nil
}

// DefaultPrefsPath puts the preference file under the user config dir.
func DefaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "api-research", "prefs.yaml")
}
