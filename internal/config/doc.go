// Package config provides centralized configuration management for gxkit.
// It handles loading configuration from multiple sources, validation, and
// resolution of every directory the tools read from or write to.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GX_<SECTION>_<FIELD>:
//
//	GX_LOGGING_LEVEL=debug
//	GX_TABLES_GEOSOFT_HOME=/opt/geosoft
//	GX_DOCS_MIN_VERSION=9.2
//	GX_GOLDEN_UPDATE=true
//
// GX_CONFIG_FILE points at an explicit YAML file; otherwise gxkit.yaml and
// configs/gxkit.yaml are tried.
//
// # Path Management
//
// Paths resolves relative entries against the project directory. Tables are
// searched in the project directory, then user/csv, then the Geosoft csv
// directory:
//
//	paths, err := cfg.GetPaths()
//	out := paths.GetDocsPath(config.HistoryFileName)
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time; the
// minimum documentation version must parse as a version number.
package config
