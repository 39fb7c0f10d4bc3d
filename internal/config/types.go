package config

import "time"

// Config is the top-level booknav configuration, corresponding to .booknav.yml.
type Config struct {
	BookDir  string        `yaml:"book_dir" koanf:"book_dir"`
	Summary  string        `yaml:"summary" koanf:"summary"`
	SiteURL  string        `yaml:"site_url" koanf:"site_url"`
	Exclude  []string      `yaml:"exclude" koanf:"exclude"`
	LogLevel string        `yaml:"log_level" koanf:"log_level"`
	Sidebar  SidebarConfig `yaml:"sidebar" koanf:"sidebar"`
	Server   ServerConfig  `yaml:"server" koanf:"server"`
}

// SidebarConfig controls how the navigation panel is rendered and synchronized.
type SidebarConfig struct {
	// ElementTag is the custom element the host page places once per page.
	ElementTag string     `yaml:"element_tag" koanf:"element_tag"`
	ScrollKey  string     `yaml:"scroll_key" koanf:"scroll_key"`
	Fold       FoldConfig `yaml:"fold" koanf:"fold"`
}

// FoldConfig mirrors the generator's output.html.fold settings.
type FoldConfig struct {
	Enable bool `yaml:"enable" koanf:"enable"`
	Level  int  `yaml:"level" koanf:"level"`
}

// ServerConfig holds settings for `booknav serve`.
type ServerConfig struct {
	Port          int           `yaml:"port" koanf:"port"`
	SessionDB     string        `yaml:"session_db" koanf:"session_db"`
	SessionCookie string        `yaml:"session_cookie" koanf:"session_cookie"`
	SessionTTL    time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
	AllowAll      bool          `yaml:"allow_all" koanf:"allow_all"`
}
