package utils

import (
	"encoding/json"
	"net/http"

	"edustaff-backend/internal/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes err with the status its kind maps to. Internal causes are
// never written to the client.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	JSON(w, apperr.HTTPStatus(kind), ErrorBody{
		Status:  "error",
		Kind:    kind.String(),
		Message: apperr.PublicMessage(err),
	})
}
