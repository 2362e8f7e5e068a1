package authorbooks

import (
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
	"github.com/uptrace/bun"
)

func setupTestServer(t *testing.T) (*echo.Echo, *bun.DB) {
	t.Helper()
	db := setupTestDB(t)

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutesWithGroups(e.Group("/authors"), e.Group("/books"), db)
	return e, db
}

func doRequest(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LinkAndList(t *testing.T) {
	e, db := setupTestServer(t)
	author := createAuthor(t, db, "Jane Doe")
	book := createBook(t, db, "First Novel")

	rec := doRequest(e, http.MethodPut, "/authors/1/books/1")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/authors/1/books")
	require.Equal(t, http.StatusOK, rec.Code)
	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)

	rec = doRequest(e, http.MethodGet, "/books/1/authors")
	require.Equal(t, http.StatusOK, rec.Code)
	var authors []models.Author
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authors))
	require.Len(t, authors, 1)
	assert.Equal(t, author.ID, authors[0].ID)
}

func TestHandler_ListEmptyIsArray(t *testing.T) {
	e, db := setupTestServer(t)
	createAuthor(t, db, "Jane Doe")

	rec := doRequest(e, http.MethodGet, "/authors/1/books")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_LinkUnknownBook(t *testing.T) {
	e, db := setupTestServer(t)
	createAuthor(t, db, "Jane Doe")

	rec := doRequest(e, http.MethodPut, "/authors/1/books/5")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book not found.")
}

func TestHandler_InvalidIDs(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(e, http.MethodGet, "/authors/abc/books")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Author not found.")

	rec = doRequest(e, http.MethodDelete, "/authors/1/books/0")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book not found.")
}

func TestHandler_Unlink(t *testing.T) {
	e, db := setupTestServer(t)
	createAuthor(t, db, "Jane Doe")
	createBook(t, db, "First Novel")

	require.Equal(t, http.StatusNoContent, doRequest(e, http.MethodPut, "/authors/1/books/1").Code)
	require.Equal(t, http.StatusNoContent, doRequest(e, http.MethodDelete, "/authors/1/books/1").Code)

	rec := doRequest(e, http.MethodDelete, "/authors/1/books/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Author book link not found.")
}
