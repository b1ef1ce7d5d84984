package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
)

// Logger is a middleware that logs every handled request, prefixed with the
// handler_method breadcrumb when the handler has set one.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err) // render before logging the status
			}

			req := c.Request()
			res := c.Response()

			handler, _ := c.Get("handler_method").(string)
			if handler == "" {
				handler = req.URL.Path
			}

			log.WithPrefixf("[%s]", handler).Infof("%s %s => %d (%s)",
				req.Method, req.RequestURI, res.Status, time.Since(start))

			return err
		}
	}
}
