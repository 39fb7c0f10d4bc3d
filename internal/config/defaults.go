package config

import "time"

const (
	// DefaultElementTag is the tag name the generator registers its sidebar under.
	DefaultElementTag = "mdbook-sidebar-scrollbox"
	// DefaultScrollKey is the session storage key holding the panel scroll offset.
	DefaultScrollKey = "sidebar-scroll"
)

// DefaultExcludes are book pages served without a sidebar.
var DefaultExcludes = []string{
	"print.html",
	"404.html",
	"toc.html",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BookDir:  "book",
		Summary:  "src/SUMMARY.md",
		Exclude:  append([]string(nil), DefaultExcludes...),
		LogLevel: "info",
		Sidebar: SidebarConfig{
			ElementTag: DefaultElementTag,
			ScrollKey:  DefaultScrollKey,
		},
		Server: ServerConfig{
			Port:          3000,
			SessionDB:     ".booknav/sessions.db",
			SessionCookie: "booknav_session",
			SessionTTL:    30 * time.Minute,
		},
	}
}
