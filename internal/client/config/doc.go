// Package config loads runtime configuration for the vaultctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file passed to Load (vaultctl -c/--config).
//  3. VAULTCTL_* environment variables.
//  4. Command-line flags, applied by the cli package through Overrides.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://vault.example.com",
//	  "session_file": "/home/me/.config/datavault/session.json",
//	  "timeout": "10s",
//	  "grpc_addr": "vault.example.com:50051",
//	  "check_interval": "3s"
//	}
package config
