// Package validator validates tagged structs with go-playground/validator
// and reports every violation in one joined error.
//
// Besides the built-in tags it understands `chainhash`: a string holding a
// 32-byte hash as 64 hex characters.
package validator

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of the chain returned by Validate.
var ErrValidationFailed = errors.New("struct validation failed")

var validator *gvalidator.Validate

const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	if err := validator.RegisterValidation("chainhash", isChainHash); err != nil {
		panic(err)
	}
}

func isChainHash(fl gvalidator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != chainhash.MaxHashStringSize {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, fe := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat, fe.Namespace(), fe.Value(), fe.Tag()))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` tags. Violations come back joined
// behind ErrValidationFailed, one per field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
