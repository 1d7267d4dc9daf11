package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog"
)

// ErrorResponse is the JSON body every error status carries.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// respondServiceError maps catalog errors onto HTTP statuses: bad input is
// 400, unknown kinds and missing documents are 404, anything else is 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *catalog.InputError
	switch {
	case errors.As(err, &inputErr):
		respondError(w, r, http.StatusBadRequest, inputErr.Error())
	case errors.Is(err, catalog.ErrUnknownKind):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
