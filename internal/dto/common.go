package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/tashikmiddha/campusconfess-backend/internal/apperr"
)

var validate = validator.New()

// Validate runs struct-tag validation and converts the first failure
// into a ValidationError the API error handler understands.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperr.Validation("invalid field: " + errs[0].Field())
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
