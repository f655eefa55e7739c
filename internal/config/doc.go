// Package config defines the application's configuration structure and
// loading logic. Configuration comes from defaults, an optional
// config.yaml, and environment variables with the MINDCRAFTR_ prefix,
// in increasing order of precedence.
package config
