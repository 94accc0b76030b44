package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okorneva/cloudstore/internal/model"
)

// errorResponse is the error body shape: a caller-safe message plus a
// numeric error kind identifier.
type errorResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}

func statusFromKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidCredentials, model.KindInvalidArgument:
		return http.StatusBadRequest
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service failure onto a status code and JSON body.
// Failures without an APIError in their chain surface as opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorResponse{Message: "internal server error", ID: int(model.KindInternal)}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		status = statusFromKind(apiErr.Kind)
		body = errorResponse{Message: apiErr.Message, ID: int(apiErr.Kind)}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
