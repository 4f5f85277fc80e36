// Package config loads runtime configuration for the access CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJhbGciOiJIUzI1NiIs...",
//	  "data_dir": ".library",
//	  "location": "north door",
//	  "online_check_interval": "3s",
//	  "qr_secret": "library-access-shared-secret"
//	}
package config
