package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, e *APIError) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/movies", nil)

	e.ToGinResponse(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestConstructorsStatus(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
		code   string
	}{
		{NewValidationError("invalid movie", map[string]string{"url": "bad"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NewBadRequestError("invalid id", "id"), http.StatusBadRequest, "BAD_REQUEST"},
		{NewNotFoundError("movie", "heat"), http.StatusNotFound, "NOT_FOUND"},
		{NewConflictError("url already in use", "url"), http.StatusConflict, "CONFLICT"},
		{NewReferenceError("unknown category", "category_id"), http.StatusUnprocessableEntity, "INVALID_REFERENCE"},
		{NewInternalError("boom", stderrors.New("x")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{NewDatabaseError("list", stderrors.New("x")), http.StatusInternalServerError, "DATABASE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := respond(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	_, body := respond(t, NewValidationError("invalid movie", map[string]string{"url": "enter a valid slug"}))
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	fields := details["fields"].(map[string]interface{})
	assert.Equal(t, "enter a valid slug", fields["url"])

	_, body = respond(t, NewValidationError("invalid", nil))
	assert.NotContains(t, body, "details")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewInternalError("save failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save failed: disk full", err.Error())
	assert.Equal(t, "movie not found", NewNotFoundError("movie", "1").Error())
}

func TestZeroStatusDefaultsTo500(t *testing.T) {
	status, _ := respond(t, &APIError{Code: "X", Message: "x"})
	assert.Equal(t, http.StatusInternalServerError, status)
}
