package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler. *Error and *echo.HTTPError values keep
// their status code; anything else is reported as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		return
	}

	httpCode, payload := h.generatePayload(err)

	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpCode)
	} else {
		err = c.JSON(httpCode, payload)
	}
	if err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *Handler) generatePayload(err error) (int, map[string]interface{}) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		httpCode = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = fmt.Sprint(he.Message)
		}
		code = strcase.ToSnake(msg)
	}

	var e *Error
	if errors.As(err, &e) {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":        code,
			"message":     msg,
			"status_code": httpCode,
		},
	}
}
