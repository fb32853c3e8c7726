package http

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/coursehub/payment-service/pkg/errors"
)

// RequestValidator plugs validator/v10 into echo's Context.Validate
type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validator: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return apperrors.InvalidArgument("invalid request body", err)
	}
	return nil
}
