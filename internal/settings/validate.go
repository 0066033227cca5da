package settings

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hamed0406/docsync/internal/probe"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// serviceurl accepts anything NormalizeServiceURL can turn into an origin,
	// including input without a scheme.
	_ = v.RegisterValidation("serviceurl", func(fl validator.FieldLevel) bool {
		_, err := probe.NormalizeServiceURL(fl.Field().String())
		return err == nil
	})
	return v
}

// validateValue runs struct validation and reports the failing fields.
func validateValue(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalidValue, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidValue, err)
}

// validateEach validates list items without touching the rest of the
// document, so a half-typed service URL does not block list edits.
func validateEach[T any](items []T) error {
	for i := range items {
		if err := validateValue(&items[i]); err != nil {
			return err
		}
	}
	return nil
}
