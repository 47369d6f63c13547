package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig contains the optional response cache settings.
// An empty address disables caching for dictionary and image lookups.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// EnrichmentConfig contains API keys for the external word enrichment
// providers. Both keys are optional; a missing key disables that provider.
type EnrichmentConfig struct {
	UnsplashAccessKey string `mapstructure:"unsplash_access_key"`
	PexelsAPIKey      string `mapstructure:"pexels_api_key"`
}
