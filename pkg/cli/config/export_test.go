package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{
		backend:    backend,
		sqlitePath: sqlitePath,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewCatalogForTest creates a Catalog config for testing purposes
func NewCatalogForTest(path string) *Catalog {
	return &Catalog{path: path}
}

// DefaultCatalog is exported for testing
var DefaultCatalog = defaultCatalog
