// Package config defines the service configuration and its loading rules.
//
// Configuration is layered: compiled-in defaults, then the YAML file, then
// CADUCEUS_* environment variable overrides, validated as a whole. A
// missing file is acceptable through LoadOrDefault, so the binary runs with
// sensible defaults out of the box.
package config
