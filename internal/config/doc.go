// Package config defines the process-wide deployment configuration used when
// provisioning transform workers.
//
// The [Config] struct is loaded once at startup, from an optional YAML file
// overlaid with the recognized environment variables, and is treated as
// read-only afterwards. It is passed explicitly into every spec builder and
// lifecycle call so that tests can vary it per call.
package config
