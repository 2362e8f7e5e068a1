package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_OmitsDatabaseURL(t *testing.T) {
	cfg := NewForTest()
	cfg.DatabaseDriver = DriverPostgres
	cfg.DatabaseURL = "postgres://catalog:secret@db:5432/catalog"
	cfg.Hostname = "catalog-1"

	e := echo.New()
	RegisterRoutes(e, cfg)

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"database_driver":"postgres","hostname":"catalog-1","server_port":3690}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")
}
