package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"edustaff-backend/internal/apperr"
)

func TestErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		kind    string
		message string
	}{
		{apperr.Validationf("amount must be a positive integer"), http.StatusBadRequest, "validation", "amount must be a positive integer"},
		{apperr.New(apperr.Expired, "token expired"), http.StatusUnauthorized, "expired", "token expired"},
		{apperr.Forbiddenf("nope"), http.StatusForbidden, "forbidden", "nope"},
		{apperr.Wrap(apperr.Internal, errors.New("pq: password=hunter2"), "load employee failed"), http.StatusInternalServerError, "internal", "internal server error"},
		{errors.New("raw"), http.StatusInternalServerError, "internal", "internal server error"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Error(rec, tt.err)

		if rec.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body ErrorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != "error" || body.Kind != tt.kind || body.Message != tt.message {
			t.Errorf("%v: body = %+v", tt.err, body)
		}
	}
}
