// Package config defines and validates the runtime configuration of gob64.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"
)

// ErrUsage indicates an error in command-line usage or configuration.
var ErrUsage = errors.New("usage error")

// Mode selects the direction of a codec run.
type Mode int

const (
	// ModeEncode turns a binary file into frames.
	ModeEncode Mode = iota
	// ModeDecode turns frames back into the binary file.
	ModeDecode
)

// String returns the command name of the mode.
func (m Mode) String() string {
	if m == ModeDecode {
		return "decode"
	}

	return "encode"
}

// Config holds the settings of an encode or decode run.
type Config struct {
	// Show prints the resolved configuration instead of running
	Show bool

	// Common flags
	Threads  int    `label:"--threads"   validate:"gte=1"`
	Salt     string `label:"--salt"      validate:"notdelim"`
	Lenient  bool
	Quiet    bool
	Stats    bool
	LogLevel string `label:"--log-level" mapstructure:"log-level" validate:"oneof=debug info warn error"`

	// Command-specific flags
	Compress bool
	Encrypt  string `label:"--encrypt" validate:"omitempty,file"`
	Decrypt  string `label:"--decrypt" validate:"omitempty,file"`

	// Set by the command
	Mode Mode `mapstructure:"-"`

	// Positional arguments
	Input  string `label:"input"  mapstructure:"-" validate:"required,file"`
	Output string `label:"output" mapstructure:"-" validate:"required,nefield=Input"`
}

// Keygen holds the settings of the genkeys command.
type Keygen struct {
	Show     bool
	Size     int    `label:"--size"    validate:"keysize"`
	Public   string `label:"--public"  validate:"required"`
	Private  string `label:"--private" validate:"required,nefield=Public"`
	Quiet    bool
	LogLevel string `label:"--log-level" mapstructure:"log-level" validate:"oneof=debug info warn error"`
}

// Normalize clears settings that do not apply to the mode, so a config file
// shared between encode and decode can carry both key paths.
func (c *Config) Normalize() {
	switch c.Mode {
	case ModeEncode:
		c.Decrypt = ""
	case ModeDecode:
		c.Encrypt = ""
		c.Compress = false
	}
}

// Display returns the value of the Show field.
func (c Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags.
// It returns a wrapped ErrUsage if any validation rules are violated.
func (c Config) Validate(config any) error {
	return validate(config)
}

// Display returns the value of the Show field.
func (k Keygen) Display() bool {
	return k.Show
}

// Validate validates config against its struct tags.
func (k Keygen) Validate(config any) error {
	return validate(config)
}

func validate(config any) error {
	validator := validator.NewValidator()

	if err := registerValidators(validator); err != nil {
		return err
	}

	errs := validator.Validate(config)

	switch {
	case errs == nil:
		return nil
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	default:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}
}
