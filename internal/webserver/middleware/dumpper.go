package middleware

import (
	"fmt"
	"net/http/httputil"

	"github.com/labstack/echo/v4"
)

// Dumpper prints every incoming request on the standard output, body
// included. Meant for debugging webhook deliveries.
func Dumpper() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			payload, err := httputil.DumpRequest(c.Request(), true)
			if err != nil {
				fmt.Println("DumpRequest:", err.Error())
			}
			fmt.Println(string(payload))

			return next(c)
		}
	}
}
