package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchawards/internal/api/apierr"
	"github.com/mcoot/matchawards/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// shirtFromPath reads the {shirt} route variable
func shirtFromPath(r *http.Request) (model.ShirtNumber, error) {
	n, err := strconv.Atoi(mux.Vars(r)["shirt"])
	if err != nil {
		return model.NoShirt, NewInvalidRequestError("invalid shirt number")
	}
	return model.ShirtNumber(n), nil
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

func shirt(n int) model.ShirtNumber {
	return model.ShirtNumber(n)
}
