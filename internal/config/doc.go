// Package config loads, normalizes, and validates sonus configuration.
//
// Configuration lives in a TOML file (default ~/.config/sonus/config.toml);
// every setting has a usable default so a missing file is not an error.
package config
