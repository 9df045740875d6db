package config

import (
	"os"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Database: DatabaseConfig{
			Path: "~/.timeledger/timeledger.db",
		},
		Auth: AuthConfig{
			Secret:        "", // must be set before serving
			TokenTTLHours: 24,
		},
	}
}

// WriteDefault writes the default configuration to a file
func WriteDefault(path string) error {
	content := `# timeledger configuration
version: "1"

# HTTP server
server:
  addr: ":8080"
  mode: release  # debug, release, test

# SQLite database
database:
  path: ~/.timeledger/timeledger.db

# Authentication
auth:
  # Signing secret for JWT tokens. Required.
  secret: ""
  token_ttl_hours: 24
`

	return os.WriteFile(path, []byte(content), 0600)
}
