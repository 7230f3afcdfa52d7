package config

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// schemaConstraint is the range of config schema versions this binary
// understands. Major bumps require a `kwatlas config init` rewrite.
const schemaConstraint = "^1"

// Validation errors.
var (
	ErrMissingCredentials = errors.New("api.login and api.password must be set (or KWATLAS_LOGIN / KWATLAS_PASSWORD)")
	ErrInvalidBatchSize   = fmt.Errorf("batch.size must be between 1 and %d", MaxBatchSize)
)

// Validate checks the configuration for values the engine cannot run with.
// It returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateSchemaVersion(); err != nil {
		return err
	}

	if c.Batch.Size < 1 || c.Batch.Size > MaxBatchSize {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, c.Batch.Size)
	}

	if c.Poll.MaxRounds < 1 {
		return fmt.Errorf("poll.max_rounds must be >= 1, got %d", c.Poll.MaxRounds)
	}
	if c.Poll.BaseInterval <= 0 {
		return fmt.Errorf("poll.base_interval must be positive, got %s", c.Poll.BaseInterval.Std())
	}
	if c.Poll.MaxInterval < c.Poll.BaseInterval {
		return fmt.Errorf("poll.max_interval (%s) must be >= poll.base_interval (%s)",
			c.Poll.MaxInterval.Std(), c.Poll.BaseInterval.Std())
	}
	if c.Poll.GrowthFactor < 1.0 {
		return fmt.Errorf("poll.growth_factor must be >= 1.0, got %g", c.Poll.GrowthFactor)
	}
	if c.Poll.GraceRounds < 0 {
		return fmt.Errorf("poll.grace_rounds must be >= 0, got %d", c.Poll.GraceRounds)
	}
	if c.Poll.Concurrency < 1 {
		return fmt.Errorf("poll.concurrency must be >= 1, got %d", c.Poll.Concurrency)
	}

	switch c.Output.DefaultFormat {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("output.default_format must be table, json, or csv; got %q", c.Output.DefaultFormat)
	}

	return nil
}

// ValidateCredentials checks that API credentials are present. Kept separate
// from Validate so commands that never call the provider (config init,
// rendering a saved export) don't demand credentials.
func (c *Config) ValidateCredentials() error {
	if c.API.Login == "" || c.API.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// validateSchemaVersion checks the config file's schema version against the
// range supported by this binary.
func (c *Config) validateSchemaVersion() error {
	if c.SchemaVersion == "" {
		// Pre-versioned config files are treated as current.
		return nil
	}

	v, err := semver.NewVersion(c.SchemaVersion)
	if err != nil {
		return fmt.Errorf("schema_version %q is not valid semver: %w", c.SchemaVersion, err)
	}

	constraint, err := semver.NewConstraint(schemaConstraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("config schema_version %s is not supported by this build (want %s); run 'kwatlas config init'",
			c.SchemaVersion, schemaConstraint)
	}
	return nil
}
