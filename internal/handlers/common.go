package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/middleware"
	"edustaff-backend/pkg/utils"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validationf("invalid request body")
	}
	return nil
}

// actorOf returns the authenticated actor. Routes using it sit behind the
// auth middleware, so a missing actor is a wiring bug.
func actorOf(r *http.Request) (hierarchy.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return hierarchy.Actor{}, apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return actor, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, apperr.Validationf("%s must be a number", name)
	}
	return n, nil
}

func queryInt(r *http.Request, name string, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	utils.JSON(w, status, v)
}

func writeError(w http.ResponseWriter, err error) {
	utils.Error(w, err)
}
