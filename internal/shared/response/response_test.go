package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mostafa-SAID7/paytrack-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := response.NewPaginationMeta(21, 2, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)

	meta = response.NewPaginationMeta(5, 1, 0)
	assert.Equal(t, 0, meta.TotalPages)
}

func TestPaginate(t *testing.T) {
	start, end := response.Paginate(25, 3, 10)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = response.Paginate(5, 4, 10)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.Error(c, http.StatusConflict, "CONFLICT", "duplicate", nil)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
}
