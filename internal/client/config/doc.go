// Package config loads runtime configuration for the healthkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the server API
//	-t duration   per-request timeout ("10s", "1m")
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "request_timeout": "10s"
//	}
package config
