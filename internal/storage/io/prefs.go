package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PrefsYAMLRepository persists small user preferences as a YAML key/value
// file with per-value expiry (the cookie analog of the original dashboard).
type PrefsYAMLRepository struct {
	path string
}

// NewPrefsYAMLRepository creates a new YAML prefs repository at the given path.
func NewPrefsYAMLRepository(path string) (*PrefsYAMLRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs path is required")
	}
	return &PrefsYAMLRepository{path: path}, nil
}

// prefsFile is the YAML structure of the prefs file.
type prefsFile struct {
	AutoRefresh *boolPref `yaml:"auto_refresh,omitempty"`
}

// boolPref is a boolean preference with an expiry.
type boolPref struct {
	Value     bool      `yaml:"value"`
	ExpiresAt time.Time `yaml:"expires_at"`
}

// GetAutoRefresh returns the persisted auto-refresh preference. ok is false
// when the preference is unset or expired.
func (r *PrefsYAMLRepository) GetAutoRefresh(ctx context.Context) (value, ok bool, err error) {
	prefs, err := r.read()
	if err != nil {
		return false, false, err
	}

	p := prefs.AutoRefresh
	if p == nil || time.Now().After(p.ExpiresAt) {
		return false, false, nil
	}

	return p.Value, true, nil
}

// SetAutoRefresh persists the auto-refresh preference with the given TTL.
func (r *PrefsYAMLRepository) SetAutoRefresh(ctx context.Context, value bool, ttl time.Duration) error {
	prefs, err := r.read()
	if err != nil {
		return err
	}

	prefs.AutoRefresh = &boolPref{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl).UTC(),
	}

	return r.write(prefs)
}

func (r *PrefsYAMLRepository) read() (*prefsFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &prefsFile{}, nil
		}
		return nil, fmt.Errorf("reading prefs file: %w", err)
	}

	prefs := &prefsFile{}
	if err := yaml.Unmarshal(data, prefs); err != nil {
		// A corrupt prefs file is not worth failing over, start fresh.
		return &prefsFile{}, nil
	}

	return prefs, nil
}

func (r *PrefsYAMLRepository) write(prefs *prefsFile) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding prefs: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating prefs directory: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0600); err != nil {
		return fmt.Errorf("writing prefs file: %w", err)
	}

	return nil
}
