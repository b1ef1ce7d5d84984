package webserver

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	middlewarepkg "github.com/mdouchement/uploadnotifier/internal/webserver/middleware"
)

// A Controller is an Iversion Of Control pattern used to init the server package.
type Controller struct {
	Version string
	Logger  logger.Logger
	Stats   *notifier.Stats
	//
	LoadConfig  func() (config.Config, error)
	OpenStorage func(ctx context.Context, cfg config.Config) (storage.Backend, error)
	//
	WebhookToken string
	Verbose      bool
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	// engine.Use(middleware.Recover())
	engine.Use(middleware.Gzip())
	engine.Use(middlewarepkg.Logger(ctrl.Logger))
	if ctrl.Verbose {
		engine.Use(middlewarepkg.Dumpper())
	}

	engine.HTTPErrorHandler = middlewarepkg.NewHTTPErrorHandler(ctrl.Logger)

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	//
	//
	//

	router := engine.Group("")

	// Generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})
	router.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Webhook
	//
	events := events{
		logger:      ctrl.Logger,
		stats:       ctrl.Stats,
		loadConfig:  ctrl.LoadConfig,
		openStorage: ctrl.OpenStorage,
		verbose:     ctrl.Verbose,
	}
	auth := middlewarepkg.Authenticate(ctrl.WebhookToken)

	router.POST("/v1/events", events.Receive, auth)

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}
