// Package response writes the API's JSON envelopes.
//
// Success responses are {"success": true, "message": ..., "<key>": payload};
// failures are the flat {"message": ..., "statusCode": ...} shape of
// httperr.ErrorResponse. Handlers never touch json.Encoder directly.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/villageangel/pkg/httperr"
)

// Payload is the success envelope under construction.
type Payload map[string]interface{}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 envelope. extra keys are merged beside success/message.
func Success(w http.ResponseWriter, message string, extra Payload) {
	JSON(w, http.StatusOK, message, extra)
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, message string, extra Payload) {
	JSON(w, http.StatusCreated, message, extra)
}

// JSON sends a success envelope with an arbitrary status.
func JSON(w http.ResponseWriter, status int, message string, extra Payload) {
	body := Payload{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	write(w, status, body)
}

// Error sends the flat error shape for any error. Non-ErrorResponse errors
// collapse to a 500 with a generic message so internals never leak.
func Error(w http.ResponseWriter, err error) {
	e := httperr.From(err, "Something went wrong")
	write(w, e.StatusCode, e)
}

// Fail is shorthand for Error(w, httperr.New(message, status)).
func Fail(w http.ResponseWriter, message string, status int) {
	write(w, status, httperr.New(message, status))
}

// ValidationError reports field-level failures as a 400 with an errors map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, map[string]interface{}{
		"message":    "Validation failed",
		"statusCode": http.StatusBadRequest,
		"errors":     errs,
	})
}
