package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/campusrecords/catalog/pkg/errcodes"
	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder implements echo.Binder. It decodes the request into a struct, runs
// mold modifiers (`mod` tags), applies `default` tags and then validates
// (`validate` tags).
type Binder struct {
	queryDecoder *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Binder{queryDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
// Requests with a body must be JSON. Bodiless GET and DELETE requests are
// bound from the query string; other bodiless requests are rejected.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	if req.ContentLength > 0 {
		if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
			return errcodes.UnsupportedMediaType()
		}
		if err := b.decodeJSON(i, c); err != nil {
			return err
		}
	} else {
		if req.Method != http.MethodGet && req.Method != http.MethodDelete {
			return errcodes.EmptyRequestBody()
		}
		if err := b.decodeQuery(i, c.QueryParams()); err != nil {
			return err
		}
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return errors.WithStack(err)
		}
		return errcodes.ValidationError(formatValidationError(errs[0]))
	}
	return nil
}

func (b *Binder) decodeJSON(i interface{}, c echo.Context) error {
	req := c.Request()
	defer req.Body.Close()

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
			return errcodes.UnknownParameter(matches[1])
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
		}

		logger.FromEchoContext(c).Err(err).Error("unknown json decode error")
		return errcodes.MalformedPayload()
	}
	return nil
}

func (b *Binder) decodeQuery(i interface{}, params url.Values) error {
	err := b.queryDecoder.Decode(i, params)
	if err == nil {
		return nil
	}

	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return errors.WithStack(err)
	}
	for _, e := range multi {
		var conversion schema.ConversionError
		if errors.As(e, &conversion) {
			return errcodes.ValidationTypeError(formatSchemaConversionError(conversion))
		}
		var unknown schema.UnknownKeyError
		if errors.As(e, &unknown) {
			return errcodes.UnknownParameter(unknown.Key)
		}
		return errors.WithStack(e)
	}
	return errors.WithStack(err)
}
