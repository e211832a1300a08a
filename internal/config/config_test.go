package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultWorkers, cfg.WorkerCount())
	assert.Equal(t, DefaultFuzzMeters, cfg.Outputs[0].FuzzRadius())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shutterbox.yaml")

	cfg := Default()
	cfg.Outputs = append(cfg.Outputs, Target{
		Kind:     KindGallery,
		AlbumURL: "https://www.icloud.com/sharedalbum/#B0Example",
		OutDir:   "content/gallery/trip",
		DataFile: "data/gallery/index.yaml",
		Gallery: &GalleryOptions{
			Name:        "Trip",
			Description: "Summer trip",
			Privacy:     &GalleryPrivacy{Unlisted: true, NoIndex: true},
		},
	})
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())

	require.Len(t, loaded.Outputs, 2)
	gallery := loaded.Outputs[1]
	assert.Equal(t, KindGallery, gallery.Kind)
	assert.Equal(t, "Trip", gallery.GalleryName())
	require.NotNil(t, gallery.Gallery.Privacy)
	assert.True(t, gallery.Gallery.Privacy.Unlisted)
	assert.True(t, gallery.Gallery.Privacy.NoIndex)
	assert.Equal(t, path, loaded.Path)
}

func TestValidateRejectsBadTargets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no outputs", func(c *Config) { c.Outputs = nil }},
		{"bad kind", func(c *Config) { c.Outputs[0].Kind = "stream" }},
		{"missing album url", func(c *Config) { c.Outputs[0].AlbumURL = "" }},
		{"missing out dir", func(c *Config) { c.Outputs[0].OutDir = "" }},
		{"missing data file", func(c *Config) { c.Outputs[0].DataFile = "" }},
		{"negative fuzz", func(c *Config) { c.Outputs[0].FuzzMeters = -1 }},
		{"duplicate data file", func(c *Config) {
			dup := c.Outputs[0]
			c.Outputs = append(c.Outputs, dup)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
