package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, "ok", map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
}

func TestException(t *testing.T) {
	rec := httptest.NewRecorder()
	Exception(rec, fmt.Errorf("error saving medicine with details: %w", errors.New("disk full")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Success bool        `json:"success"`
		Error   ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "error saving medicine with details: disk full", body.Error.Message)
	assert.Equal(t, "*fmt.wrapError", body.Error.Type)
}

func TestDefaultMessages(t *testing.T) {
	cases := []struct {
		write  func(http.ResponseWriter)
		status int
		msg    string
	}{
		{func(w http.ResponseWriter) { Unauthorized(w, "") }, http.StatusUnauthorized, "Unauthorized"},
		{func(w http.ResponseWriter) { Forbidden(w, "") }, http.StatusForbidden, "Forbidden"},
		{func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound, "Resource not found"},
		{func(w http.ResponseWriter) { BadRequest(w, "") }, http.StatusBadRequest, "Bad request"},
		{func(w http.ResponseWriter) { Conflict(w, "") }, http.StatusConflict, "Conflict"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		tc.write(rec)

		var body Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.status, rec.Code)
		assert.Equal(t, tc.msg, body.Message)
	}
}
