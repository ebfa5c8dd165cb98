package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// IsEmail checks syntax only; no DNS lookups on the request path.
func IsEmail(email string) bool {
	if strings.ContainsAny(email, " <>") {
		return false
	}
	return validate.Var(email, "required,email") == nil
}
