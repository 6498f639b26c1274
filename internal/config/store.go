package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/Tiliavir/hourglass/internal/storage"
)

// Store loads and persists the configuration.
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// Keys written to the saved-state file.
const (
	keyAPIKey    = "api_key"
	keyWorkspace = "workspace_id"
	keyName      = "billing_name"
	keyRate      = "hourly_rate"
	keyDOPRate   = "usd_to_dop_rate"
)

// FileStore reads config.json for defaults and keeps the credential and
// billing profile in a separate key-value file so that saving never
// rewrites the user's comments.
type FileStore struct {
	dir   string
	saved *storage.KV
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:   dir,
		saved: storage.OpenKV(filepath.Join(dir, "profile.json")),
	}
}

// Load merges config.json with the saved values.
func (s *FileStore) Load() (Config, error) {
	cfg, err := readFile(filePath(s.dir))
	if err != nil {
		return cfg, err
	}
	saved, err := s.saved.All()
	if err != nil {
		return cfg, err
	}
	if v := saved[keyAPIKey]; v != "" {
		cfg.APIKey = v
	}
	if v := saved[keyWorkspace]; v != "" {
		cfg.WorkspaceID = v
	}
	if v := saved[keyName]; v != "" {
		cfg.Billing.Name = v
	}
	for key, dst := range map[string]*float64{
		keyRate:    &cfg.Billing.HourlyRate,
		keyDOPRate: &cfg.Billing.USDToDOPRate,
	} {
		v := saved[key]
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("saved %s %q in %s: %w", key, v, s.dir, err)
		}
		*dst = f
	}
	return cfg, nil
}

// Save persists the credential and billing profile of cfg. Empty or zero
// fields are removed.
func (s *FileStore) Save(cfg Config) error {
	return s.saved.Update(map[string]string{
		keyAPIKey:    cfg.APIKey,
		keyWorkspace: cfg.WorkspaceID,
		keyName:      cfg.Billing.Name,
		keyRate:      formatRate(cfg.Billing.HourlyRate),
		keyDOPRate:   formatRate(cfg.Billing.USDToDOPRate),
	})
}

func formatRate(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MemoryStore is a Store held in memory.
type MemoryStore struct {
	Config Config
	Err    error
}

func (m *MemoryStore) Load() (Config, error) { return m.Config, m.Err }

func (m *MemoryStore) Save(cfg Config) error {
	if m.Err != nil {
		return m.Err
	}
	m.Config = cfg
	return nil
}
