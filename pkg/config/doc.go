// Package config provides configuration management for the blackout tool.
//
// Configuration is loaded from a YAML file, defaults are applied, optional
// environment variable overrides are layered on top, and the result is
// validated before anything else runs.
//
// # Environment variable overrides
//
// Environment variables follow the naming convention BLACKOUT_SECTION_FIELD.
// For example:
//
//   - BLACKOUT_MASKING_SALT overrides masking.salt
//   - BLACKOUT_INPUT_DIR overrides input.dir
//   - BLACKOUT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based
// configuration. The secret salt in particular is normally supplied through
// BLACKOUT_MASKING_SALT rather than written into the file.
//
// # Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
package config
