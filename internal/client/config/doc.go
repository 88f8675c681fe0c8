// Package config loads runtime configuration for the wincal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path to the local SQLite database file
//	-i int      background sync interval (seconds)
//	-p string   host:port for the connectivity probe
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://wincal-one.vercel.app",
//	  "database_path": "wincal.db",
//	  "sync_interval": "15s",
//	  "backoff_min": "10s",
//	  "sync_max_runtime": "2m",
//	  "probe_addr": "1.1.1.1:53",
//	  "probe_interval": "3s"
//	}
//
// Note: This package does not read environment variables directly; use
// the JSON file or flags to configure values.
package config
