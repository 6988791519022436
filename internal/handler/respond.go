package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cedarelevator/commerce/internal/domain"
)

// maxBodySize caps request bodies. Checkout payloads are tiny; anything
// larger is abuse.
const maxBodySize = 1 << 20

var validate = newValidator()

// newValidator builds the shared validator, reporting wire names from json
// tags instead of Go field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON serializes v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing left to do for the client.
		return
	}
}

// dataEnvelope wraps successful responses.
type dataEnvelope struct {
	Data any `json:"data"`
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataEnvelope{Data: v})
}

// decodeJSON parses and validates a request body into dst. dst must be a
// pointer to a struct with validate tags.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return domain.Invalid("request.decode", "unable to read request body")
	}
	if len(body) == 0 {
		return domain.Invalid("request.decode", "request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("request.decode", "request body is not valid JSON")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			return domain.Invalid("request.validate",
				fmt.Sprintf("field %s failed validation (%s)", field.Field(), field.Tag()))
		}
		return domain.Invalid("request.validate", "request body failed validation")
	}
	return nil
}
