package api

import (
	"errors"
	"net/http"

	"carteira/pkg/carteira"
)

// writeCoreError writes an error response with the HTTP status derived from
// the core's error classification.
func writeCoreError(w http.ResponseWriter, err error) {
	var coreErr *carteira.Error
	if errors.As(err, &coreErr) {
		writeError(w, mapErrorCodeToHTTPStatus(coreErr.Code), coreErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code carteira.ErrorCode) int {
	switch code {
	case carteira.ErrCodeInvalidInput, carteira.ErrCodeValidation:
		return http.StatusBadRequest
	case carteira.ErrCodeNotFound:
		return http.StatusNotFound
	case carteira.ErrCodeDuplicate:
		return http.StatusConflict
	case carteira.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case carteira.ErrCodeDatabase, carteira.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
