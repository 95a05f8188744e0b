package apierr

import (
	"errors"
	"net/http"

	"github.com/mcoot/rinkbook/internal/api/response"
	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/services/game"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Common messages not owned by the game service
const (
	MessageInvalidBody   = "Invalid request body"
	MessageGameNotFound  = "Game not found"
	MessageRouteNotFound = "Not found"
	MessageBadMethod     = "Method not allowed"
	MessageInternalError = "Internal server error"
)

// httpError combines an HTTP status code with a client message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.JSON(w, he.status, ErrorResponse{Error: he.message})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *game.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, ve.Message}
	}

	if errors.Is(err, model.ErrGameNotFound) {
		return &httpError{http.StatusNotFound, MessageGameNotFound}
	}

	var se *game.StorageError
	if errors.As(err, &se) {
		return &httpError{http.StatusInternalServerError, se.PublicMessage()}
	}

	return &httpError{http.StatusInternalServerError, MessageInternalError}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, message}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, MessageBadMethod}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, MessageInternalError}
}
