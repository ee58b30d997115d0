package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreviews/pkg/errors"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError(t *testing.T) {
	t.Run("AppError使用自身状态码和消息", func(t *testing.T) {
		c, w := newContext("/books/abc?x=1")
		notFound := apperrors.ErrNotFound.Withf("Book with ID %q not found", "abc")

		Error(c, notFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decode(t, w)
		assert.Equal(t, http.StatusNotFound, body.StatusCode)
		assert.Equal(t, `Book with ID "abc" not found`, body.Message)
		assert.Equal(t, "/books/abc?x=1", body.Path)
		assert.True(t, c.IsAborted())

		ts, err := time.Parse(time.RFC3339, body.Timestamp)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), ts, time.Minute)
	})

	t.Run("5xx隐藏内部细节", func(t *testing.T) {
		c, w := newContext("/books")

		Error(c, apperrors.Wrap(errors.New("connection refused"), "查询图书失败"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, apperrors.ErrInternal.Message, body.Message)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("普通error按500处理", func(t *testing.T) {
		c, w := newContext("/books")

		Error(c, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrInternal.Message, decode(t, w).Message)
	})
}

func TestValidationError(t *testing.T) {
	c, w := newContext("/books")

	ValidationError(c, []string{"title should not be empty", "author should not be empty"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, []interface{}{"title should not be empty", "author should not be empty"}, raw["message"])
}

func TestNewPageData(t *testing.T) {
	page := NewPageData[string](nil, 0, 1, 10, 0)

	data, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"limit":10,"totalPages":0}`, string(data))
}
