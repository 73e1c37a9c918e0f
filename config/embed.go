// Package config holds the embedded default configuration.
package config

import _ "embed"

// Default is the built-in conf.yaml merged under every user config.
//
//go:embed default.yaml
var Default []byte
