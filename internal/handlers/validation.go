package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorMessage turns a binding failure into a French message naming
// the offending fields, without leaking internal struct details.
func bindingErrorMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Format de requête invalide"
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields = append(fields, strings.ToLower(fieldError.Field()))
	}
	return fmt.Sprintf("Champs invalides ou manquants: %s", strings.Join(fields, ", "))
}
