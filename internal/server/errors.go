package server

import "net/http"

type httpError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *httpError) Error() string {
	return e.Message
}

var (
	errMissingSource = &httpError{
		Status:  http.StatusBadRequest,
		Message: "source query parameter is required",
	}
	errMissingPath = &httpError{
		Status:  http.StatusBadRequest,
		Message: "path query parameter is required",
	}
	errInvalidRule = &httpError{
		Status:  http.StatusBadRequest,
		Message: "sourcemap rule needs a non-empty server prefix",
	}
)

func badRequest(err error) *httpError {
	return &httpError{Status: http.StatusBadRequest, Message: err.Error()}
}
