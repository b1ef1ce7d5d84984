package notifier_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/event"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/mdouchement/uploadnotifier/internal/rdp"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, backend storage.Backend, server *httptest.Server) *notifier.Notifier {
	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.Config{
		Host:             host,
		Port:             port,
		DefaultClientID:  "healthcloud",
		DefaultUserID:    "system",
		DefaultUserRoles: "uploader",
	}

	return &notifier.Notifier{
		Logger:  logger.WrapLogrus(log),
		Config:  cfg,
		Storage: backend,
		Client:  rdp.NewClient(cfg),
		Stats:   &notifier.Stats{},
	}
}

func created(subject string) event.Event {
	return event.Event{
		ID:        "evt-1",
		Subject:   subject,
		EventType: event.TypeObjectCreated,
		Data: event.Data{
			API:           "PutBlob",
			ContentType:   "image/jpeg",
			ContentLength: 2048,
		},
	}
}

func TestProcessSubmitted(t *testing.T) {
	var path string
	var body rdp.CreateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"response": {"status": "Success"}}`))
	}))
	defer server.Close()

	backend := storage.NewMemory()
	backend.Store("media", "cat.jpg", map[string]string{
		"x_rdp_tenantid":   "t1",
		"originalfilename": "Holiday Photo.jpg",
		"color-profile":    "srgb",
	})

	//

	n := setup(t, backend, server)
	outcome, err := n.Process(context.Background(), created("/blobServices/default/containers/media/blobs/cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, notifier.OutcomeSubmitted, outcome)

	assert.Equal(t, "/t1/api/binarystreamobjectservice/create", path)
	assert.NotEmpty(t, body.BinaryStreamObject.ID)
	assert.Equal(t, "Holiday Photo.jpg", body.BinaryStreamObject.Properties[rdp.PropOriginalFileName])
	assert.Equal(t, "media/cat.jpg", body.BinaryStreamObject.Properties[rdp.PropFullObjectPath])
	assert.EqualValues(t, 2048, body.BinaryStreamObject.Properties[rdp.PropContentSize])
	assert.Equal(t, "srgb", body.BinaryStreamObject.Properties["color-profile"])

	assert.EqualValues(t, 1, n.Stats.Received())
	assert.EqualValues(t, 1, n.Stats.Submitted())
}

func TestProcessSkippedEventType(t *testing.T) {
	var called bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	n := setup(t, storage.NewMemory(), server)

	e := created("/blobServices/default/containers/media/blobs/cat.jpg")
	e.EventType = "Storage.ObjectDeleted"

	outcome, err := n.Process(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, notifier.OutcomeSkippedEventType, outcome)
	assert.False(t, called)
	assert.EqualValues(t, 1, n.Stats.Skipped())
}

func TestProcessSkippedSubject(t *testing.T) {
	var called bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	n := setup(t, storage.NewMemory(), server)

	outcome, err := n.Process(context.Background(), created("/blobServices/default/containers/media/blobs/2023/04/cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, notifier.OutcomeSkippedSubject, outcome)
	assert.False(t, called)
	assert.EqualValues(t, 1, n.Stats.Skipped())
}

func TestProcessSkippedNoTenant(t *testing.T) {
	var called bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	backend := storage.NewMemory()
	backend.Store("media", "cat.jpg", map[string]string{
		"originalfilename": "Holiday Photo.jpg",
	})

	n := setup(t, backend, server)

	outcome, err := n.Process(context.Background(), created("/blobServices/default/containers/media/blobs/cat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, notifier.OutcomeSkippedNoTenant, outcome)
	assert.False(t, called)
	assert.EqualValues(t, 1, n.Stats.Skipped())
}

func TestProcessMetadataFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	n := setup(t, storage.NewMemory(), server)

	outcome, err := n.Process(context.Background(), created("/blobServices/default/containers/media/blobs/cat.jpg"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not fetch object metadata")
	assert.Equal(t, notifier.OutcomeFailed, outcome)
	assert.EqualValues(t, 1, n.Stats.Failed())
}

func TestProcessSubmitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"status": "failed"}}`))
	}))
	defer server.Close()

	backend := storage.NewMemory()
	backend.Store("media", "cat.jpg", map[string]string{
		"x_rdp_tenantid": "t1",
	})

	n := setup(t, backend, server)

	outcome, err := n.Process(context.Background(), created("/blobServices/default/containers/media/blobs/cat.jpg"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not create binary stream object")
	assert.Equal(t, notifier.OutcomeFailed, outcome)
	assert.EqualValues(t, 1, n.Stats.Failed())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "submitted", notifier.OutcomeSubmitted.String())
	assert.Equal(t, "skipped-event-type", notifier.OutcomeSkippedEventType.String())
	assert.Equal(t, "skipped-subject", notifier.OutcomeSkippedSubject.String())
	assert.Equal(t, "skipped-no-tenant", notifier.OutcomeSkippedNoTenant.String())
	assert.Equal(t, "failed", notifier.OutcomeFailed.String())
}
