// Package response writes Asana-shaped JSON bodies.
package response

import (
	"encoding/json"
	"net/http"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Errors []ErrorBody `json:"errors"`
}

// ErrorBody is one entry of the errors array.
type ErrorBody struct {
	Message string `json:"message"`
	Help    string `json:"help,omitempty"`
	Phrase  string `json:"phrase,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// OK sends a 200 response wrapping data in the envelope.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, DataResponse{Data: data})
}

// Error sends an error response with a single message.
func Error(w http.ResponseWriter, status int, message string) {
	body := ErrorBody{Message: message}
	if status >= http.StatusInternalServerError {
		body.Phrase = "fake server error"
	} else {
		body.Help = "For more information on API status codes and how to handle them, read the docs on errors: https://developers.asana.com/docs/errors"
	}
	JSON(w, status, ErrorResponse{Errors: []ErrorBody{body}})
}

// NotFound sends a 404 for an unknown object or route.
func NotFound(w http.ResponseWriter, path string) {
	Error(w, http.StatusNotFound, path+": Unknown object")
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Not Authorized")
}

// BadRequest sends a 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Internal sends a 500.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server Error")
}
