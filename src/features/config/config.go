package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	InboxPath   string   `yaml:"inboxPath" validate:"required"`
	Telegram    Telegram `yaml:"telegram"`
	Logger      Logger   `yaml:"logger"`
	Server      Server   `yaml:"server"`
	Database    Database `yaml:"database"`
	Import      Import   `yaml:"import"`
	Artwork     Artwork  `yaml:"artwork"`
	UI          UI       `yaml:"ui"`
	Metrics     Metrics  `yaml:"metrics"`
}

// Import holds the configuration for inbox ingestion.
type Import struct {
	Move             bool `yaml:"move"` // If not copies
	AutoStartWatcher bool `yaml:"auto_start_watcher"`
}

// Database holds the configuration for the database
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}

// Artwork holds configuration for artwork handling
type Artwork struct {
	Embedded EmbeddedArtwork `yaml:"embedded"`
}

// EmbeddedArtwork holds configuration for embedded artwork
type EmbeddedArtwork struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Quality int  `yaml:"quality"`
}

// UI holds configuration for the web interface
type UI struct {
	Enabled bool `yaml:"enabled"`
}

// Metrics holds configuration for the Prometheus endpoint
type Metrics struct {
	Enabled bool `yaml:"enabled"`
}
