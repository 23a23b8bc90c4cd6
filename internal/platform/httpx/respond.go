// Package httpx provides HTTP response utilities around the stable error
// envelope external clients pattern-match on.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the error body shape shared by the 401 and 403 paths:
// {code, message, detail, data}. Data is always null on errors.
type Envelope struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Detail  *string `json:"detail"`
	Data    any     `json:"data"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail writes the error envelope. An empty detail serializes as null.
func Fail(w http.ResponseWriter, status int, message, detail string) {
	env := Envelope{Code: status, Message: message}
	if detail != "" {
		env.Detail = &detail
	}
	JSON(w, status, env)
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
