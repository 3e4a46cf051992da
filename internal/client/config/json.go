package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/datavault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields let a file set only some of the values.
type JsonConfig struct {
	ServerURL     *string         `json:"server_url"`
	SessionFile   *string         `json:"session_file"`
	Timeout       *timex.Duration `json:"timeout"`
	GRPCAddr      *string         `json:"grpc_addr"`
	CheckInterval *timex.Duration `json:"check_interval"`
}

// parseJson overlays cfg with the values found in the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.GRPCAddr != nil {
		cfg.GRPCAddr = *jc.GRPCAddr
	}
	if jc.CheckInterval != nil {
		cfg.CheckInterval = jc.CheckInterval.Duration
	}
	return nil
}
