package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for vaultctl.
type Config struct {
	// ServerURL is the base URL of the DataVault REST API.
	ServerURL string `envconfig:"SERVER_URL"`
	// SessionFile is where tokens are kept between invocations.
	SessionFile string `envconfig:"SESSION_FILE"`
	// Timeout bounds every HTTP request.
	Timeout time.Duration `envconfig:"TIMEOUT"`
	// GRPCAddr is the host:port of the server's gRPC health service.
	GRPCAddr string `envconfig:"GRPC_ADDR"`
	// CheckInterval is how often `vaultctl status --watch` probes the server.
	CheckInterval time.Duration `envconfig:"CHECK_INTERVAL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = DefaultSessionFile()
	c.Timeout = 10 * time.Second
	c.GRPCAddr = "127.0.0.1:50051"
	c.CheckInterval = 3 * time.Second
}

// userConfigDir is a test seam for os.UserConfigDir.
var userConfigDir = os.UserConfigDir

// DefaultSessionFile returns <user config dir>/datavault/session.json, or a
// file in the working directory when the config dir is unknown.
func DefaultSessionFile() string {
	dir, err := userConfigDir()
	if err != nil {
		return filepath.Join(".datavault", "session.json")
	}
	return filepath.Join(dir, "datavault", "session.json")
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// path is empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overrides carries values given on the command line. Empty fields are left
// alone.
type Overrides struct {
	ServerURL   string
	SessionFile string
	Timeout     time.Duration
	GRPCAddr    string
}

func (o Overrides) Apply(cfg *Config) {
	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}
	if o.SessionFile != "" {
		cfg.SessionFile = o.SessionFile
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.GRPCAddr != "" {
		cfg.GRPCAddr = o.GRPCAddr
	}
}
