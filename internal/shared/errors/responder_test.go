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

var errSomethingMissing = stderrors.New("missing")

func newTestContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c, rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestResponder_UsesMapper(t *testing.T) {
	responder := NewResponder("", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errSomethingMissing) {
			return NewNotFoundProblem("thing", 7), true
		}
		return ProblemDetail{}, false
	})
	c, rec := newTestContext("/things/7")

	responder.RespondError(c, errSomethingMissing)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decodeProblem(t, rec)
	assert.Equal(t, TypeNotFound, problem.Type)
	assert.Equal(t, "/things/7", problem.Instance)
}

func TestResponder_FallsBackToInternal(t *testing.T) {
	responder := NewResponder("https://storefront.example")
	c, rec := newTestContext("/boom")

	responder.RespondError(c, stderrors.New("kaput"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, "https://storefront.example"+TypeInternal, problem.Type)
	assert.Equal(t, "kaput", problem.Detail)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrValidation.WithExtension("fields", map[string]string{"status": "unknown"})
	assert.Nil(t, ErrValidation.Extensions)
}

func TestHTTPStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatusFromError(ErrTerminalState))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(stderrors.New("x")))
}
