package application

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Apurer/go-storefront-api/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated an order invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) || errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
