package config

var defaultConfig = Config{
	LibraryPath: "./music",
	InboxPath:   "./inbox",
	Telegram: Telegram{
		Enabled:      false,
		Token:        "",                                   // Can be obtained with https://t.me/BotFather
		AllowedUsers: []string{"<your_telegram_username>"}, // No @
		BotHandle:    "@<YourTelegramUserBot>",             // With @
	},
	Logger: Logger{
		Enabled: true,
		Level:   "info",
		Format:  "text",
	},
	Server: Server{
		PrintRoutes: false,
		Port:        3535,
	},
	Database: Database{
		Path: "./library.db",
	},
	Import: Import{
		Move:             true,
		AutoStartWatcher: false,
	},
	Artwork: Artwork{
		Embedded: EmbeddedArtwork{
			Enabled: true,
			Size:    500,
			Quality: 85,
		},
	},
	UI: UI{
		Enabled: true,
	},
	Metrics: Metrics{
		Enabled: true,
	},
}
