package config

// Config represents the full timeledger configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// HTTP server settings
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// SQLite database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Token issuance settings
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Mode string `yaml:"mode" mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AuthConfig configures password hashing and JWT issuance
type AuthConfig struct {
	Secret        string `yaml:"secret" mapstructure:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours" mapstructure:"token_ttl_hours"`
}
