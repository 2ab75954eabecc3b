package binder

import (
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// CustomBinder decodes JSON bodies with sonic and defers everything else
// (query, path, form) to echo's default binder.
type CustomBinder struct {
	fallback echo.DefaultBinder
}

func NewCustomBinder() *CustomBinder {
	return &CustomBinder{}
}

func (b *CustomBinder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if req.ContentLength != 0 && strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(i); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
		// Path and query params still bind on top of the JSON body.
		if err := b.fallback.BindPathParams(c, i); err != nil {
			return err
		}
		return b.fallback.BindQueryParams(c, i)
	}
	return b.fallback.Bind(i, c)
}
