package rdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/pkg/errors"
)

// Request headers understood by the binarystreamobjectservice.
const (
	HeaderVersion       = "x-rdp-version"
	HeaderClientID      = "x-rdp-clientId"
	HeaderTenantID      = "x-rdp-tenantId"
	HeaderUserID        = "x-rdp-userId"
	HeaderUserRoles     = "x-rdp-userRoles"
	HeaderOwnershipData = "x-rdp-ownershipData"
)

// APIVersion is sent as `x-rdp-version' with every request.
const APIVersion = "8.1"

// StatusSuccess is the response status reported by the service when the
// object has been registered. The comparison is case-insensitive.
const StatusSuccess = "success"

// A Client registers binary stream objects with the downstream catalog API.
type Client struct {
	host   string
	port   string
	client *http.Client
}

// NewClient returns a new Client targeting the configured host and port.
// No client-side timeout is set; the invocation context carries the hosting
// platform's deadline and cancels the request when it expires.
func NewClient(cfg config.Config) *Client {
	return &Client{
		host:   cfg.Host,
		port:   cfg.Port,
		client: &http.Client{},
	}
}

type createResponse struct {
	Response struct {
		Status string `json:"status"`
	} `json:"response"`
}

// Create POSTs the descriptor to the tenant's create endpoint and interprets
// the response. It issues exactly one request; a transport error, a non-200
// status, an unparsable body or a non-success response status are all
// returned as errors and never retried here, redelivery being the event
// platform's responsibility.
func (c *Client) Create(ctx context.Context, headers Headers, request CreateRequest) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "could not serialize create request")
	}

	endpoint := fmt.Sprintf("http://%s/%s/api/binarystreamobjectservice/create",
		net.JoinHostPort(c.host, c.port), headers.TenantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "could not build create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderVersion, APIVersion)
	req.Header.Set(HeaderTenantID, headers.TenantID)
	req.Header.Set(HeaderClientID, headers.ClientID)
	req.Header.Set(HeaderUserID, headers.UserID)
	req.Header.Set(HeaderUserRoles, headers.UserRoles)
	if headers.OwnershipData != "" {
		req.Header.Set(HeaderOwnershipData, headers.OwnershipData)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not reach binarystreamobjectservice")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "could not read binarystreamobjectservice response")
	}

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("binarystreamobjectservice replied %d: %s",
			res.StatusCode, strings.TrimSpace(string(body)))
	}

	var response createResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return errors.Wrap(err, "could not parse binarystreamobjectservice response")
	}

	if !strings.EqualFold(response.Response.Status, StatusSuccess) {
		return errors.Errorf("binarystreamobjectservice replied status %q", response.Response.Status)
	}

	return nil
}
