package config

import "github.com/teranos/barista/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Sales.File == "" {
		return errors.NewInvalidArgumentError("sales.file cannot be empty")
	}
	// 0 = watcher default, negative = invalid
	if c.Sales.WatchDebounceMS < 0 {
		return errors.NewInvalidArgumentError("sales.watch_debounce_ms must be >= 0, got %d", c.Sales.WatchDebounceMS)
	}

	if c.Display.RecentRows < 1 {
		return errors.NewInvalidArgumentError("display.recent_rows must be >= 1, got %d", c.Display.RecentRows)
	}
	switch c.Display.Format {
	case FormatTable, FormatJSON:
	default:
		return errors.WithHintf(
			errors.NewInvalidArgumentError("display.format %q is not supported", c.Display.Format),
			"use %q or %q", FormatTable, FormatJSON)
	}

	return nil
}
