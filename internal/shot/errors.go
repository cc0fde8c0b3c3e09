package shot

import "errors"

// Error variables for configuration and CLI-facing validation. The store
// itself never propagates errors; these belong to the surfaces that do.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrStorePathEmpty     = errors.New("store path cannot be empty")
	ErrRetentionNegative  = errors.New("retention days cannot be negative")
	ErrUnknownFormat      = errors.New("unknown image format")
)
