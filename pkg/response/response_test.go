package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set("request_id", "req-1")

	Error(c, http.StatusNotFound, "route not found", ErrorDetail{Kind: "NotFoundError"})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "route not found", body["message"])
	assert.Equal(t, map[string]any{"kind": "NotFoundError"}, body["error"])
}

func TestNewErrorDefaultsToBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	body := NewError(c, 0, "bad", nil)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Nil(t, body.Error)
}
