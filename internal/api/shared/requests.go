package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance; validator.Validate is safe for concurrent use.
var validate = validator.New()

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates v with its own Validate method when it has one,
// falling back to struct tag validation.
func ValidateRequest(v any) error {
	if selfValidating, ok := v.(interface{ Validate() error }); ok {
		return selfValidating.Validate()
	}
	return validate.Struct(v)
}
