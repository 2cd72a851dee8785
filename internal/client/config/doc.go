// Package config loads runtime configuration for the blogdesk terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the post API (default http://localhost:8080/api)
//	-u string   base URL of the auth API (default http://localhost:8081/api)
//	-d string   data directory (default <user config dir>/blogdesk)
//	-t int      request timeout in seconds (default 0, no timeout)
//	-l string   log level (default warn)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds. Keys left out keep their default:
//
//	{
//	  "api_base_url": "https://blog.example.com/api",
//	  "auth_base_url": "https://auth.example.com/api",
//	  "data_dir": "/home/me/.blogdesk",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "delete_concurrency": 4,
//	  "image_store": "s3",
//	  "s3": {"region": "eu-west-1", "bucket": "blog-images"}
//	}
//
// Both base URLs are resolved once at startup.
package config
