package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultCompactWidth = 100
	defaultSidebarWidth = 36
	minSidebarWidth     = 24
)

// uiConfig is read from ui.yaml. It is never written back.
type uiConfig struct {
	Theme        string `yaml:"theme,omitempty"`
	Catalog      string `yaml:"catalog,omitempty"`
	CompactWidth int    `yaml:"compact_width,omitempty"`
	SidebarWidth int    `yaml:"sidebar_width,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
}

// loadUIConfig reads path, or ui.yaml in the config directory when path is
// empty. A missing or unparsable file yields the defaults.
func loadUIConfig(path string) (*uiConfig, string) {
	if path == "" {
		path = filepath.Join(resolveConfigDir(), "ui.yaml")
	}
	cfg := &uiConfig{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = &uiConfig{}
		}
	}
	cfg.applyDefaults()
	return cfg, path
}

func (c *uiConfig) applyDefaults() {
	if c.Theme == "" {
		c.Theme = markdownThemeAuto.String()
	}
	if c.CompactWidth <= 0 {
		c.CompactWidth = defaultCompactWidth
	}
	if c.SidebarWidth <= 0 {
		c.SidebarWidth = defaultSidebarWidth
	}
	if c.SidebarWidth < minSidebarWidth {
		c.SidebarWidth = minSidebarWidth
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "datadict")
}
