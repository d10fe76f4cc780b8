// ABOUTME: JSON response and request-body helpers shared by gateway handlers
// ABOUTME: Errors use the {"detail": "..."} shape clients already understand

package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxRequestBody bounds decoded request bodies.
const maxRequestBody = 1 << 20

// errorResponse is the body of every gateway-generated error.
type errorResponse struct {
	Detail string `json:"detail"`
}

// sendJSON writes v as JSON with the given status.
func (g *Gateway) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a {"detail": message} error.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	g.sendJSON(w, status, errorResponse{Detail: message})
}

// sendRaw writes an already-encoded JSON body.
func (g *Gateway) sendRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// validator is implemented by request bodies that have required fields.
type validator interface {
	validate() error
}

// errMissingField names a required field absent from a request body.
type errMissingField string

func (e errMissingField) Error() string {
	return fmt.Sprintf("field required: %s", string(e))
}

// requireFields returns an errMissingField for the first nil pointer.
func requireFields(fields ...namedField) error {
	for _, f := range fields {
		if f.value == nil {
			return errMissingField(f.name)
		}
	}
	return nil
}

type namedField struct {
	name  string
	value *string
}

func field(name string, value *string) namedField {
	return namedField{name: name, value: value}
}

// decodeBody decodes and validates a JSON request body into dst. On failure
// it writes a 422 and returns false.
func (g *Gateway) decodeBody(w http.ResponseWriter, r *http.Request, dst validator) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		g.sendJSONError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return false
	}
	if err := dst.validate(); err != nil {
		g.sendJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
