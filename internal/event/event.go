package event

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Event types delivered by the storage platform's notification service.
const (
	TypeObjectCreated          = "Storage.ObjectCreated"
	TypeSubscriptionValidation = "Subscription.Validation"
)

type (
	// An Event is a single notification from the storage platform.
	// The subject identifies the container and the object:
	// `/blobServices/default/containers/<container>/blobs/<object>'.
	Event struct {
		ID        string    `json:"id"`
		Subject   string    `json:"subject"`
		EventType string    `json:"eventType"`
		EventTime time.Time `json:"eventTime"`
		Data      Data      `json:"data"`
	}

	// Data is the event payload.
	Data struct {
		API           string `json:"api,omitempty"`
		ContentType   string `json:"contentType,omitempty"`
		ContentLength int64  `json:"contentLength"`
		ETag          string `json:"eTag,omitempty"`
		URL           string `json:"url"`

		// ValidationCode is only present on subscription validation events.
		ValidationCode string `json:"validationCode,omitempty"`
	}
)

// ParseDelivery decodes the body of a webhook delivery.
// The platform sends a JSON array of events; a single-object body is
// accepted as well and treated as a batch of one.
func ParseDelivery(payload []byte) ([]Event, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, errors.New("empty delivery")
	}

	if payload[0] == '[' {
		var events []Event
		err := json.Unmarshal(payload, &events)
		return events, errors.Wrap(err, "could not parse delivery")
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Wrap(err, "could not parse delivery")
	}
	return []Event{event}, nil
}

// Validation returns the validation code when the delivery carries the
// notification service's subscription handshake.
func Validation(events []Event) (code string, ok bool) {
	for _, event := range events {
		if event.EventType == TypeSubscriptionValidation {
			return event.Data.ValidationCode, true
		}
	}
	return "", false
}

// WithoutValidation returns the events remaining once the subscription
// validation events are removed, in their delivery order.
func WithoutValidation(events []Event) []Event {
	remaining := make([]Event, 0, len(events))
	for _, event := range events {
		if event.EventType == TypeSubscriptionValidation {
			continue
		}
		remaining = append(remaining, event)
	}
	return remaining
}
