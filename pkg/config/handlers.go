package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PublicConfig is the subset of Config that is safe to expose over HTTP.
// DatabaseURL is left out since it can carry credentials.
type PublicConfig struct {
	DatabaseDriver string `json:"database_driver"`
	Hostname       string `json:"hostname"`
	ServerPort     int    `json:"server_port"`
}

func (cfg *Config) Public() PublicConfig {
	return PublicConfig{
		DatabaseDriver: cfg.DatabaseDriver,
		Hostname:       cfg.Hostname,
		ServerPort:     cfg.ServerPort,
	}
}

type handler struct {
	cfg *Config
}

func (h *handler) retrieve(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.cfg.Public()))
}
