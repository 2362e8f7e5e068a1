package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

type requiredParams struct {
	Title string `json:"title" mod:"trim" validate:"required"`
}

type listQuery struct {
	Limit  int     `query:"limit" json:"limit" default:"25" validate:"min=1,max=100"`
	Search *string `query:"search" json:"search"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
	malformedJSON        = `{"hello":`
)

func TestBind_JSON(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("only allows application/json bodies", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", goodJSON, echo.MIMEApplicationXML)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", typeErrJSON, echo.MIMEApplicationJSON)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("returns malformed payload for broken json", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", malformedJSON, echo.MIMEApplicationJSON)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), "Malformed Payload")
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err := b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", validationErrJSON, echo.MIMEApplicationJSON)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})

	t.Run("trimmed blank value fails required", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", `{"title":"   "}`, echo.MIMEApplicationJSON)
		err := b.Bind(&requiredParams{}, c)
		assert.Contains(tt, err.Error(), `"title" is required`)
	})

	t.Run("rejects an empty body on POST", func(tt *testing.T) {
		c := newContext(http.MethodPost, "/", "", echo.MIMEApplicationJSON)
		err := b.Bind(&params{}, c)
		assert.Contains(tt, err.Error(), "Request body can't be empty.")
	})
}

func TestBind_Query(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("applies defaults", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/", "", "")
		q := listQuery{}
		require.NoError(tt, b.Bind(&q, c))
		assert.Equal(tt, 25, q.Limit)
		assert.Nil(tt, q.Search)
	})

	t.Run("decodes values", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?limit=10&search=doe", "", "")
		q := listQuery{}
		require.NoError(tt, b.Bind(&q, c))
		assert.Equal(tt, 10, q.Limit)
		require.NotNil(tt, q.Search)
		assert.Equal(tt, "doe", *q.Search)
	})

	t.Run("reports conversion errors", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?limit=ten", "", "")
		err := b.Bind(&listQuery{}, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("reports unknown keys", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?bogus=1", "", "")
		err := b.Bind(&listQuery{}, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "bogus"`)
	})

	t.Run("validates bounds", func(tt *testing.T) {
		c := newContext(http.MethodGet, "/?limit=500", "", "")
		err := b.Bind(&listQuery{}, c)
		assert.Contains(tt, err.Error(), `"limit" must be less than or equal to 100`)
	})
}

func newContext(method, target, payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if mime != "" {
		req.Header.Set(echo.HeaderContentType, mime)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
