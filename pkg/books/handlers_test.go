package books

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusrecords/catalog/pkg/binder"
	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/campusrecords/catalog/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := setupTestDB(t)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutesWithGroup(e.Group("/books"), db)
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndRetrieve(t *testing.T) {
	e := setupTestServer(t)

	rec := doRequest(e, http.MethodPost, "/books", `{"title": "Learning Go"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)

	rec = doRequest(e, http.MethodGet, "/books/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Learning Go", got.Title)
}

func TestHandler_Create_MissingTitle(t *testing.T) {
	e := setupTestServer(t)

	rec := doRequest(e, http.MethodPost, "/books", `{"title": "  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `\"title\" is required`)
}

func TestHandler_Update(t *testing.T) {
	e := setupTestServer(t)
	doRequest(e, http.MethodPost, "/books", `{"title": "Draft"}`)

	rec := doRequest(e, http.MethodPatch, "/books/1", `{"title": "Final"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Final", got.Title)

	rec = doRequest(e, http.MethodPatch, "/books/1", `{"title": " "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandler_DeleteAndList(t *testing.T) {
	e := setupTestServer(t)
	doRequest(e, http.MethodPost, "/books", `{"title": "One"}`)
	doRequest(e, http.MethodPost, "/books", `{"title": "Two"}`)

	rec := doRequest(e, http.MethodDelete, "/books/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Books []models.Book `json:"books"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
	require.Len(t, response.Books, 1)
	assert.Equal(t, "Two", response.Books[0].Title)
}
