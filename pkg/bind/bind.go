// Package bind decodes and validates JSON request bodies.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndthang/techmart/pkg/validate"
)

// MaxBodyBytes caps request bodies; product payloads carry base64 images.
const MaxBodyBytes = 8 << 20

// ErrInvalidJSON is returned when the body is not well-formed JSON.
var ErrInvalidJSON = errors.New("bind: malformed JSON body")

// JSON decodes the request body into dst and runs struct validation.
// The returned map is non-nil and non-empty when validation fails.
func JSON(w http.ResponseWriter, r *http.Request, dst interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return nil, ErrInvalidJSON
	}

	if errs := validate.Struct(dst); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
