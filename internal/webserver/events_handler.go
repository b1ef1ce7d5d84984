package webserver

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/event"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/mdouchement/uploadnotifier/internal/rdp"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	"github.com/mdouchement/uploadnotifier/internal/webserver/serializer"
	"github.com/mdouchement/uploadnotifier/internal/webserver/weberror"
)

type events struct {
	logger      logger.Logger
	stats       *notifier.Stats
	loadConfig  func() (config.Config, error)
	openStorage func(ctx context.Context, cfg config.Config) (storage.Backend, error)
	verbose     bool
}

// Receive handles one webhook delivery: a JSON array of events, or a single
// event treated as a batch of one. A subscription handshake is answered in
// the response while the other events of the delivery still run the
// pipeline, in order. Any failed event makes the whole delivery respond 500
// so the platform delivers it again, handshake included.
func (h *events) Receive(c echo.Context) error {
	c.Set("handler_method", "events.Receive")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return weberror.Wrap(http.StatusBadRequest, err)
	}

	batch, err := event.ParseDelivery(payload)
	if err != nil {
		return weberror.Wrap(http.StatusBadRequest, err)
	}

	code, handshake := event.Validation(batch)
	if handshake {
		batch = event.WithoutValidation(batch)
		if len(batch) == 0 {
			return c.JSON(http.StatusOK, serializer.Validation(code))
		}
	}

	// The pipeline is rebuilt on every delivery so a configuration change is
	// picked up without a restart. Nothing is reached over the network before
	// the configuration is complete.
	cfg, err := h.loadConfig()
	if err != nil {
		return weberror.Wrap(http.StatusInternalServerError, err)
	}

	// The storage connection is opened on the first metadata lookup, so a
	// delivery with nothing to look up stays off the network.
	backend := &storage.Lazy{
		Open: func(ctx context.Context) (storage.Backend, error) {
			return h.openStorage(ctx, cfg)
		},
	}

	n := &notifier.Notifier{
		Logger:  h.logger,
		Config:  cfg,
		Storage: backend,
		Client:  rdp.NewClient(cfg),
		Stats:   h.stats,
		Verbose: h.verbose,
	}

	//

	ctx := c.Request().Context()
	results := make([]map[string]interface{}, 0, len(batch))
	var failures int

	for _, e := range batch {
		outcome, err := n.Process(ctx, e)
		if err != nil {
			failures++
			h.logger.WithPrefixf("[event: %s]", e.ID).Error(err)
		}

		results = append(results, serializer.Result(e, outcome, err))
	}

	if failures > 0 {
		return c.JSON(http.StatusInternalServerError, serializer.Failure(failures, len(batch), results))
	}

	return c.JSON(http.StatusOK, serializer.Delivery(results, code))
}
