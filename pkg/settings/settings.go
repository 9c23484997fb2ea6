// Package settings persists pdfbind configuration as JSON, including the
// ordered grouping pattern list. Files written by releases that only knew
// a single pattern are migrated on load.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Pattern is one grouping rule record. Position in the list is priority:
// earlier patterns win.
type Pattern struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// Config mirrors the on-disk settings file. LegacyPattern predates the
// pattern list and is kept so old files keep loading.
type Config struct {
	SupportedExtensions []string  `json:"supported_extensions"`
	FitPageToImage      bool      `json:"pdf_fit_page_to_image"`
	LegacyPattern       string    `json:"pdf_grouping_pattern"`
	Patterns            []Pattern `json:"pdf_grouping_patterns"`
}

const defaultPattern = `^\d{4}-\d{2}-\d{2}-(?P<name>.+)-\d+\.`

// DefaultConfig returns the configuration used when no settings file
// exists or the existing one cannot be read.
func DefaultConfig() *Config {
	return &Config{
		SupportedExtensions: []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tiff", ".webp"},
		FitPageToImage:      true,
		LegacyPattern:       defaultPattern,
		Patterns: []Pattern{{
			ID:          "default",
			Label:       "default",
			Pattern:     defaultPattern,
			Description: "bundle yyyy-mm-dd-TITLE-n images into TITLE.pdf",
			Enabled:     false,
		}},
	}
}

// Store is a settings file bound to a path.
type Store struct {
	Path   string
	Config *Config
}

// Load reads the settings file at path. Legacy single-pattern files are
// migrated to the pattern list, and defaults fill any missing keys. A
// missing or unreadable file yields the defaults.
func Load(path string) *Store {
	s := &Store{Path: path, Config: DefaultConfig()}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			klog.Warningf("read settings %s: %v; using defaults", path, err)
		}
		return s
	}

	var keys map[string]json.RawMessage
	var cfg Config
	if err := json.Unmarshal(raw, &keys); err != nil {
		klog.Warningf("parse settings %s: %v; using defaults", path, err)
		return s
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		klog.Warningf("parse settings %s: %v; using defaults", path, err)
		return s
	}

	def := DefaultConfig()

	// migration runs on the raw file contents, before default merging
	if _, ok := keys["pdf_grouping_patterns"]; !ok {
		if cfg.LegacyPattern != "" {
			cfg.Patterns = []Pattern{{
				ID:          "migrated_default",
				Label:       "migrated default pattern",
				Pattern:     cfg.LegacyPattern,
				Description: "migrated from a legacy settings file",
				Enabled:     true,
			}}
		} else {
			cfg.Patterns = def.Patterns
		}
	}

	if _, ok := keys["supported_extensions"]; !ok {
		cfg.SupportedExtensions = def.SupportedExtensions
	}
	if _, ok := keys["pdf_fit_page_to_image"]; !ok {
		cfg.FitPageToImage = def.FitPageToImage
	}
	if _, ok := keys["pdf_grouping_pattern"]; !ok {
		cfg.LegacyPattern = def.LegacyPattern
	}

	s.Config = &cfg
	return s
}

// Save writes the settings file, creating parent directories as needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(s.Path), err)
	}

	bs, err := json.MarshalIndent(s.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(s.Path, bs, 0o600); err != nil {
		return fmt.Errorf("write settings %s: %w", s.Path, err)
	}
	return nil
}

// Extensions returns the supported extension set, lowercased, keyed with
// the leading dot.
func (c *Config) Extensions() map[string]bool {
	m := make(map[string]bool, len(c.SupportedExtensions))
	for _, e := range c.SupportedExtensions {
		m[strings.ToLower(e)] = true
	}
	return m
}

// EnabledPatterns returns the enabled pattern expressions in priority
// order.
func (c *Config) EnabledPatterns() []string {
	var out []string
	for _, p := range c.Patterns {
		if p.Enabled {
			out = append(out, p.Pattern)
		}
	}
	return out
}

// FirstEnabledPattern returns the highest-priority enabled expression, or
// "" when none is enabled. Kept for callers of the single-pattern
// interface.
func (c *Config) FirstEnabledPattern() string {
	for _, p := range c.Patterns {
		if p.Enabled {
			return p.Pattern
		}
	}
	return ""
}

// AddPattern appends a pattern record and returns its generated ID.
func (c *Config) AddPattern(label, expr, description string, enabled bool) string {
	p := Pattern{
		ID:          uuid.NewString(),
		Label:       label,
		Pattern:     expr,
		Description: description,
		Enabled:     enabled,
	}
	c.Patterns = append(c.Patterns, p)
	return p.ID
}

// UpdatePattern applies mutate to the pattern with the given ID and
// reports whether it was found.
func (c *Config) UpdatePattern(id string, mutate func(*Pattern)) bool {
	for i := range c.Patterns {
		if c.Patterns[i].ID == id {
			mutate(&c.Patterns[i])
			return true
		}
	}
	return false
}

// RemovePattern deletes the pattern with the given ID and reports whether
// it was found.
func (c *Config) RemovePattern(id string) bool {
	for i := range c.Patterns {
		if c.Patterns[i].ID == id {
			c.Patterns = append(c.Patterns[:i], c.Patterns[i+1:]...)
			return true
		}
	}
	return false
}

// Reset restores every setting to its default value.
func (c *Config) Reset() {
	*c = *DefaultConfig()
}
