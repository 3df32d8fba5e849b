// Package httperr defines the single error shape every handler fails with.
//
// There is deliberately no taxonomy beyond the HTTP status: controllers and
// services return *ErrorResponse, the response layer serialises it as
// {"message": ..., "statusCode": ...}, and clients branch on the code.
package httperr

import "net/http"

// ErrorResponse carries a user-facing message and the HTTP status to send.
type ErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *ErrorResponse) Error() string { return e.Message }

// New creates an ErrorResponse with an explicit status code.
func New(message string, statusCode int) *ErrorResponse {
	return &ErrorResponse{Message: message, StatusCode: statusCode}
}

// Convenience constructors for the codes the API actually uses.

func BadRequest(message string) *ErrorResponse   { return New(message, http.StatusBadRequest) }
func Unauthorized(message string) *ErrorResponse { return New(message, http.StatusUnauthorized) }
func Forbidden(message string) *ErrorResponse    { return New(message, http.StatusForbidden) }
func NotFound(message string) *ErrorResponse     { return New(message, http.StatusNotFound) }
func Conflict(message string) *ErrorResponse     { return New(message, http.StatusConflict) }

func Internal(message string) *ErrorResponse {
	return New(message, http.StatusInternalServerError)
}

// From wraps any error into an ErrorResponse. Existing ErrorResponses pass
// through unchanged; anything else becomes a 500 with the given message.
func From(err error, message string) *ErrorResponse {
	if e, ok := err.(*ErrorResponse); ok {
		return e
	}
	return Internal(message)
}
