package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/gob64/internal/codec"
)

const (
	minKeySize  = 1024
	maxKeySize  = 16384
	keySizeStep = 256
)

// registerValidators adds the custom validators with their error messages and a
// tag name function that reports fields by their command-line label.
func registerValidators(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"keysize",
		validateKeySize,
		fmt.Sprintf("{0} must be a multiple of %d between %d and %d bits", keySizeStep, minKeySize, maxKeySize),
	); err != nil {
		return fmt.Errorf("registering keysize validation: %w", err)
	}

	if err := validator.RegisterValidationAndTranslation(
		"notdelim",
		validateNotDelimiter,
		"{0} must not contain "+codec.Delimiter,
	); err != nil {
		return fmt.Errorf("registering notdelim validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" {
			return fld.Name
		}

		if name != "" {
			return name
		}

		return fld.Name
	})

	return nil
}

// validateKeySize accepts RSA modulus sizes between 1024 and 16384 bits in steps of 256.
func validateKeySize(fl validator.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() != reflect.Int {
		return false
	}

	size := field.Int()

	return size >= minKeySize && size <= maxKeySize && size%keySizeStep == 0
}

// validateNotDelimiter rejects salts containing the salt delimiter,
// which would make the delimiter search on decode ambiguous.
func validateNotDelimiter(fl validator.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() != reflect.String {
		return true
	}

	return !strings.Contains(field.String(), codec.Delimiter)
}
