package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is prepended to every variable name, e.g. DATAVAULT_DATABASE_DSN.
const EnvPrefix = "DATAVAULT"

// parseEnv overlays DATAVAULT_* environment variables onto config. Variables
// that are not set leave the current value untouched. Malformed values panic,
// like the other loaders.
func parseEnv(config *Config) {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		panic(err)
	}
}
