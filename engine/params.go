/*
params.go - Shared variant parameter validation

PURPOSE:
  Variant constructors validate their parameters before a record can ever
  exist. Domain packages declare constraints as struct tags and call
  ValidateParams; violations surface as InvalidParametersError so callers
  can distinguish "fix your inputs" from every runtime failure mode.

USAGE:
  // In payments/policies.go
  type cardParams struct {
      Holder string `validate:"required"`
      Number string `validate:"required,len=16,numeric"`
  }

  if err := engine.ValidateParams(MethodCard, cardParams{...}); err != nil {
      return nil, err // wraps ErrInvalidParameters
  }

SEE ALSO:
  - errors.go: InvalidParametersError
  - payments/policies.go, lending/policies.go: Callers
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateParams checks params against its struct tags and converts the
// first violation into an InvalidParametersError for variant.
func ValidateParams(variant Variant, params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidParametersError{
			Variant: variant.VariantID(),
			Field:   fe.Field(),
			Reason:  fmt.Sprintf("violates %q", fe.Tag()),
		}
	}

	return &InvalidParametersError{
		Variant: variant.VariantID(),
		Reason:  err.Error(),
	}
}
