// Package errors defines the sentinel errors shared across assetmirror and
// small helpers for wrapping them with context.
package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath    = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse        = fmt.Errorf("failed to parse config")
	ErrConfigValidation   = fmt.Errorf("invalid configuration")
	ErrConfigVersion      = fmt.Errorf("unsupported config version")
	ErrConfigFileExists   = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigFileCreate   = fmt.Errorf("failed to create config file")
	ErrHTTPTimeoutInvalid = fmt.Errorf("http_timeout cannot be negative")
	ErrConcurrencyInvalid = fmt.Errorf("max_concurrent must be at least 1")
	ErrInvalidLogLevel    = fmt.Errorf("invalid log level")

	// Batch errors.
	ErrInvalidLocator  = fmt.Errorf("invalid locator")
	ErrNoFetcher       = fmt.Errorf("fetcher is not configured")
	ErrOutputDirCreate = fmt.Errorf("failed to create output directory")

	// Store errors.
	ErrTargetIsDir = fmt.Errorf("target path is a directory")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
