package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shutterbox/shutterbox/internal/utils"
)

const (
	DefaultConfigFileName = "shutterbox.yaml"
	DefaultFuzzMeters     = 100.0
	DefaultWorkers        = 6
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigDir  = filepath.Join(home, ".shutterbox")
	DefaultConfigPath = filepath.Join(DefaultConfigDir, DefaultConfigFileName)
)

// TargetKind selects the artifact layout for an output target.
type TargetKind string

const (
	KindPhotostream TargetKind = "photostream"
	KindGallery     TargetKind = "gallery"
)

// GalleryPrivacy controls how a gallery is exposed once published.
type GalleryPrivacy struct {
	// Unlisted removes the gallery from site listings.
	Unlisted bool `yaml:"unlisted,omitempty"`
	// NoIndex asks crawlers not to index the gallery page.
	NoIndex bool `yaml:"noindex,omitempty"`
	// UseIDSegment uses the stable gallery identifier instead of the
	// human slug as the directory/link segment.
	UseIDSegment bool `yaml:"use_id_segment,omitempty"`
}

// GalleryOptions configures a gallery target.
type GalleryOptions struct {
	Name        string          `yaml:"name,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Privacy     *GalleryPrivacy `yaml:"privacy,omitempty"`
}

// Target describes one output: where the photos come from and where the
// artifacts and the index document go. Each target owns its own index
// file; no state is shared across targets.
type Target struct {
	Kind       TargetKind      `yaml:"kind"`
	AlbumURL   string          `yaml:"album_url"`
	OutDir     string          `yaml:"out_dir"`
	DataFile   string          `yaml:"data_file"`
	FuzzMeters float64         `yaml:"fuzz_meters,omitempty"`
	Gallery    *GalleryOptions `yaml:"gallery,omitempty"`
}

// Config is the top-level shutterbox configuration document.
type Config struct {
	Outputs []Target `yaml:"outputs"`
	Workers int      `yaml:"workers,omitempty"`

	Path string `yaml:"-"`
}

// Default returns a starter configuration written by `shutterbox init`.
func Default() *Config {
	return &Config{
		Outputs: []Target{
			{
				Kind:       KindPhotostream,
				AlbumURL:   "https://www.icloud.com/sharedalbum/#ALBUM_TOKEN_GOES_HERE",
				OutDir:     "content/photostream",
				DataFile:   "data/photos/index.yaml",
				FuzzMeters: DefaultFuzzMeters,
			},
		},
		Workers: DefaultWorkers,
	}
}

func (t *Target) Validate() error {
	switch t.Kind {
	case KindPhotostream, KindGallery:
	default:
		return fmt.Errorf("output kind must be %q or %q, got %q", KindPhotostream, KindGallery, t.Kind)
	}
	if t.AlbumURL == "" {
		return errors.New("album_url is required")
	}
	if t.OutDir == "" {
		return errors.New("out_dir is required")
	}
	if t.DataFile == "" {
		return errors.New("data_file is required")
	}
	if t.FuzzMeters < 0 {
		return errors.New("fuzz_meters cannot be negative")
	}
	return nil
}

// FuzzRadius returns the configured fuzz radius, falling back to the default.
func (t *Target) FuzzRadius() float64 {
	if t.FuzzMeters == 0 {
		return DefaultFuzzMeters
	}
	return t.FuzzMeters
}

// GalleryName returns the configured display name, or empty to let the
// remote album name win.
func (t *Target) GalleryName() string {
	if t.Gallery == nil {
		return ""
	}
	return t.Gallery.Name
}

func (c *Config) Validate() error {
	if len(c.Outputs) == 0 {
		return errors.New("config has no outputs")
	}
	seen := make(map[string]struct{}, len(c.Outputs))
	for i := range c.Outputs {
		t := &c.Outputs[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		if _, dup := seen[t.DataFile]; dup {
			return fmt.Errorf("output %d: data_file %q is used by another output", i, t.DataFile)
		}
		seen[t.DataFile] = struct{}{}
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	return nil
}

// WorkerCount returns the ingestion concurrency bound.
func (c *Config) WorkerCount() int {
	if c.Workers == 0 {
		return DefaultWorkers
	}
	return c.Workers
}

func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Path = path
	return &cfg, nil
}
