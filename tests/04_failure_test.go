package tests

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/ncw/swift/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureMissingObject(t *testing.T) {
	w, cleanup := setup()
	defer cleanup()

	res, err := http.Post(w.URL+"/v1/events", "application/json",
		strings.NewReader(delivery("/blobServices/default/containers/media/blobs/ghost.jpg")))
	require.NoError(t, err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, string(payload), "1 of 1 events failed")

	assert.Equal(t, 0, w.Downstream.Received())
}

func TestFailureRejectedSubmission(t *testing.T) {
	w, cleanup := setup()
	defer cleanup()

	ctx := context.Background()
	err := w.Swift.Authenticate(ctx)
	assert.NoError(t, err)

	//

	err = w.Swift.ContainerCreate(ctx, "media", swift.Headers{})
	assert.NoError(t, err)

	err = w.Swift.ObjectPutString(ctx, "media", "cat.jpg", "content", "image/jpeg")
	assert.NoError(t, err)

	m := swift.Metadata{"x_rdp_tenantid": "t1"}
	err = w.Swift.ObjectUpdate(ctx, "media", "cat.jpg", m.ObjectHeaders())
	assert.NoError(t, err)

	//

	w.Downstream.Reply(http.StatusOK, "failed")

	res, err := http.Post(w.URL+"/v1/events", "application/json",
		strings.NewReader(delivery("/blobServices/default/containers/media/blobs/cat.jpg")))
	require.NoError(t, err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, string(payload), "1 of 1 events failed")
	assert.Contains(t, string(payload), `replied status \"failed\"`)

	assert.Equal(t, 1, w.Downstream.Received())
}

func TestFailureUnconfigured(t *testing.T) {
	w, cleanup := setup()
	defer cleanup()

	previous := os.Getenv(config.EnvHost)
	os.Unsetenv(config.EnvHost)
	defer os.Setenv(config.EnvHost, previous)

	res, err := http.Post(w.URL+"/v1/events", "application/json",
		strings.NewReader(delivery("/blobServices/default/containers/media/blobs/cat.jpg")))
	require.NoError(t, err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, string(payload), config.EnvHost)

	assert.Equal(t, 0, w.Downstream.Received())
}
