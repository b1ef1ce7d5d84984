package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/uploadnotifier/internal/webserver/weberror"
)

// Authenticate checks the webhook token of incoming deliveries, given as
// X-Webhook-Token header or as token query parameter.
// An empty configured token disables the check.
func Authenticate(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if token == "" {
				return next(c)
			}

			provided := c.Request().Header.Get("X-Webhook-Token")
			if provided == "" {
				provided = c.QueryParam("token")
			}

			if provided != token {
				return weberror.New(http.StatusUnauthorized, "invalid webhook token")
			}

			return next(c)
		}
	}
}
