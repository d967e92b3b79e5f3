package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the wire format for every error response.
type ErrorEnvelope struct {
	Response       string `json:"response"`
	HTTPStatusCode int    `json:"http_status_code"`
	ResStatus      string `json:"res_status"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes the payload directly with the given 2xx status.
func Success(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, data)
}

// Error writes the standard error envelope. resStatus is the machine
// code (e.g. "INVALID_CATEGORY_CODE").
func Error(w http.ResponseWriter, status int, message, resStatus string) {
	WriteJSON(w, status, ErrorEnvelope{
		Response:       message,
		HTTPStatusCode: status,
		ResStatus:      resStatus,
	})
}

// GetStringValue returns the value of a nullable string pointer or
// empty string if nil.
func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PtrString returns a pointer to the given string, nil when empty.
func PtrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
