package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/mdouchement/uploadnotifier/internal/rdp"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	"github.com/mdouchement/uploadnotifier/internal/webserver"
	"github.com/ncw/swift/v2"
	"github.com/ncw/swift/v2/swifttest"
	"github.com/sirupsen/logrus"
)

// A world wires a full notifier against a Swift test server and a catalog
// stub, the way production wires against the real ones.
type world struct {
	URL        string
	Swift      *swift.Connection
	Downstream *downstream
}

// A downstream records every request the notifier sends to the catalog.
type downstream struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   []rdp.CreateRequest
	status   string
	code     int
}

func (d *downstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var body rdp.CreateRequest
	json.NewDecoder(r.Body).Decode(&body)

	d.requests = append(d.requests, r.Clone(context.Background()))
	d.bodies = append(d.bodies, body)

	w.WriteHeader(d.code)
	fmt.Fprintf(w, `{"response": {"status": %q}}`, d.status)
}

// Reply configures the stub's responses.
func (d *downstream) Reply(code int, status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.code = code
	d.status = status
}

// Received returns the number of requests the catalog stub got.
func (d *downstream) Received() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

// Request returns the i-th recorded request.
func (d *downstream) Request(i int) *http.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[i]
}

// Body returns the i-th recorded payload.
func (d *downstream) Body(i int) rdp.CreateRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bodies[i]
}

func setup() (*world, func()) {
	log := logrus.New()
	log.SetFormatter(&logger.LogrusTextFormatter{
		DisableColors:   false,
		ForceColors:     true,
		ForceFormatting: true,
		PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	//

	swiftsrv, err := swifttest.NewSwiftServer("localhost")
	if err != nil {
		panic(err)
	}

	ds := &downstream{status: "success", code: http.StatusOK}
	ds.server = httptest.NewServer(ds)

	//

	u, err := url.Parse(ds.server.URL)
	if err != nil {
		panic(err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		panic(err)
	}

	os.Setenv(config.EnvStorageAuthURL, swiftsrv.AuthURL)
	os.Setenv(config.EnvStorageUsername, swifttest.TEST_ACCOUNT)
	os.Setenv(config.EnvStorageAPIKey, swifttest.TEST_ACCOUNT)
	os.Setenv(config.EnvHost, host)
	os.Setenv(config.EnvPort, port)
	os.Setenv(config.EnvDefaultClientID, "healthcloud")
	os.Setenv(config.EnvDefaultUserID, "system")
	os.Setenv(config.EnvDefaultUserRoles, "uploader")

	//

	ctrl := webserver.Controller{
		Version:     "test",
		Logger:      logger.WrapLogrus(log),
		Stats:       &notifier.Stats{},
		LoadConfig:  config.Load,
		OpenStorage: storage.OpenSwift,
	}
	engine := webserver.EchoEngine(ctrl)

	server := httptest.NewUnstartedServer(engine)
	server.Config.ReadTimeout = 20 * time.Second
	server.Config.WriteTimeout = 20 * time.Second
	server.Start()

	//

	fmt.Println("Listen:", server.URL)
	c := &swift.Connection{
		AuthUrl:  swiftsrv.AuthURL,
		UserName: swifttest.TEST_ACCOUNT,
		ApiKey:   swifttest.TEST_ACCOUNT,
	}

	w := &world{
		URL:        server.URL,
		Swift:      c,
		Downstream: ds,
	}

	return w, func() {
		server.Close()
		ds.server.Close()
		swiftsrv.Close()
	}
}

// delivery crafts a one event delivery about the given subject.
func delivery(subject string) string {
	return fmt.Sprintf(`[
	  {
	    "id": "evt-1",
	    "subject": %q,
	    "eventType": "Storage.ObjectCreated",
	    "eventTime": "2023-04-12T08:30:00Z",
	    "data": {
	      "api": "PutBlob",
	      "contentType": "image/jpeg",
	      "contentLength": 7,
	      "url": "https://storage.example.com%s"
	    }
	  }
	]`, subject, subject)
}
