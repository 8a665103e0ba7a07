// Package config defines the application configuration structure and
// loading logic. Configuration is sourced from environment variables
// (prefixed with TASKBOARD_) and an optional config.yaml file, with
// environment variables taking precedence.
package config
