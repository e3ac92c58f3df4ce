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

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessOmitsPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Success(c, gin.H{"id": 1})

	body := decode(t, rec)
	assert.EqualValues(t, CodeOK, body["status_code"])
	assert.Equal(t, "success", body["msg"])
	assert.NotContains(t, body, "pagination")
}

func TestSuccessWithPageRoundsTotalPagesUp(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	SuccessWithPage(c, []string{"a"}, 2, 20, 41)

	body := decode(t, rec)
	page, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, page["page"])
	assert.EqualValues(t, 20, page["page_size"])
	assert.EqualValues(t, 41, page["total"])
	assert.EqualValues(t, 3, page["total_page"])
}

func TestNewPaginationWithoutPageSize(t *testing.T) {
	assert.EqualValues(t, 0, NewPagination(1, 0, 10).TotalPage)
	assert.EqualValues(t, 0, NewPagination(1, 20, 0).TotalPage)
}

func TestErrorCarriesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set("request_id", "req-42")
	Error(c, CodeNotFound, "book not found")

	body := decode(t, rec)
	assert.EqualValues(t, CodeNotFound, body["status_code"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "req-42", data["request_id"])
}

func TestErrorWithoutRequestIDHasNullData(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Error(c, CodeBadRequest, "bad")

	body := decode(t, rec)
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestAbortStopsHandlerChain(t *testing.T) {
	engine := gin.New()
	reached := false
	engine.GET("/cart", func(c *gin.Context) {
		Abort(c, CodeUnauthorized, "login required")
	}, func(c *gin.Context) {
		reached = true
		Success(c, nil)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	body := decode(t, rec)
	assert.EqualValues(t, CodeUnauthorized, body["status_code"])
	assert.False(t, reached)
}
