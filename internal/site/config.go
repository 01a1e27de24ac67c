package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the default config file name, looked up in the
// working directory when no --config flag is given.
const ConfigFileName = "platen.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config")
)

// Config holds the site configuration.
//
// Values come from three layers, highest wins: defaults, the config
// file, CLI flags. The config file is JSONC: comments and trailing
// commas are fine.
type Config struct {
	// Title is the site title, used in templates and the feed.
	Title string `json:"title"`

	// Description is the site description, used in the feed. Optional.
	Description string `json:"description,omitempty"`

	// BaseURL is the absolute URL the site is published under,
	// e.g. "https://example.org". Used for feed links and the freezer.
	BaseURL string `json:"base_url"`

	// ContentDir is the document tree root holding the articles,
	// authors and pages tables.
	ContentDir string `json:"content_dir"`

	// StaticDir is the directory of static assets served under
	// /static/ and copied verbatim by the freezer. Optional.
	StaticDir string `json:"static_dir,omitempty"`

	// Addr is the listen address for serve, e.g. ":8000".
	Addr string `json:"addr,omitempty"`

	// FeedSize caps the number of articles in the feed.
	FeedSize int `json:"feed_size,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Title:      "platen site",
		ContentDir: "content",
		StaticDir:  "static",
		Addr:       ":8000",
		FeedSize:   20,
	}
}

// LoadConfig builds the effective configuration.
//
// path names an explicit config file; when empty, ConfigFileName is
// tried and may be absent. overrides carries CLI flag values; only its
// non-zero fields apply.
func LoadConfig(path string, overrides Config) (Config, error) {
	cfg := DefaultConfig()

	mustExist := path != ""
	if path == "" {
		path = ConfigFileName
	}

	fileCfg, loaded, err := loadConfigFile(path, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg = mergeConfig(cfg, overrides)

	err = validateConfig(cfg)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses one JSONC config file. A missing
// optional file is (zero, false, nil).
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if os.IsNotExist(err) {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %v", errConfigInvalid, path, err)
	}

	var cfg Config

	dec := json.NewDecoder(strings.NewReader(string(std)))
	dec.DisallowUnknownFields()

	err = dec.Decode(&cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %v", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// mergeConfig overlays the non-zero fields of over onto base.
func mergeConfig(base, over Config) Config {
	if over.Title != "" {
		base.Title = over.Title
	}

	if over.Description != "" {
		base.Description = over.Description
	}

	if over.BaseURL != "" {
		base.BaseURL = over.BaseURL
	}

	if over.ContentDir != "" {
		base.ContentDir = over.ContentDir
	}

	if over.StaticDir != "" {
		base.StaticDir = over.StaticDir
	}

	if over.Addr != "" {
		base.Addr = over.Addr
	}

	if over.FeedSize != 0 {
		base.FeedSize = over.FeedSize
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.ContentDir == "" {
		return fmt.Errorf("%w: content_dir cannot be empty", errConfigInvalid)
	}

	if cfg.FeedSize < 0 {
		return fmt.Errorf("%w: feed_size cannot be negative", errConfigInvalid)
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: base_url %q is not an absolute URL", errConfigInvalid, cfg.BaseURL)
		}
	}

	return nil
}
