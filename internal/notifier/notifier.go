package notifier

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/event"
	"github.com/mdouchement/uploadnotifier/internal/rdp"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	"github.com/pkg/errors"
)

// An Outcome describes how the pipeline ended for one event.
type Outcome int

const (
	// OutcomeFailed means a pipeline step returned an error.
	OutcomeFailed Outcome = iota
	// OutcomeSubmitted means the descriptor has been accepted by the catalog.
	OutcomeSubmitted
	// OutcomeSkippedEventType means the event is not an object creation.
	OutcomeSkippedEventType
	// OutcomeSkippedSubject means the subject does not locate a storable object.
	OutcomeSkippedSubject
	// OutcomeSkippedNoTenant means the object carries no tenant id.
	OutcomeSkippedNoTenant
)

// String stringifies the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeSkippedEventType:
		return "skipped-event-type"
	case OutcomeSkippedSubject:
		return "skipped-subject"
	case OutcomeSkippedNoTenant:
		return "skipped-no-tenant"
	}
	return "failed"
}

// A Notifier registers uploaded objects into the catalog.
type Notifier struct {
	Logger  logger.Logger
	Config  config.Config
	Storage storage.Backend
	Client  *rdp.Client
	Stats   *Stats
	Verbose bool
}

// Process runs the pipeline for a single event and reports how it ended.
// Each event gets its own invocation id, used as log prefix and as fallback
// identifier in the descriptor.
func (n *Notifier) Process(ctx context.Context, e event.Event) (outcome Outcome, err error) {
	n.Stats.event()
	defer func() {
		n.Stats.outcome(outcome, err)
	}()

	invocation := uuid.Must(uuid.NewV4()).String()
	log := n.Logger.WithPrefixf("[invocation: %s]", invocation)
	log.Infof("Received %s for %s", e.EventType, e.Subject)

	if e.EventType != event.TypeObjectCreated {
		log.Infof("Nothing to do: event type %s", e.EventType)
		return OutcomeSkippedEventType, nil
	}

	container, object, err := event.ParseSubject(e.Subject)
	if err != nil {
		log.Infof("Nothing to do: %s", err)
		return OutcomeSkippedSubject, nil
	}

	//

	info, err := n.Storage.ObjectMetadata(ctx, container, object)
	if err != nil {
		return OutcomeFailed, err
	}

	metadata := rdp.NormalizeMetadata(info.Metadata)
	if n.Verbose {
		log.Debugf("Metadata: %v", metadata)
	}

	headers, err := rdp.DeriveHeaders(metadata, n.Config)
	if err != nil {
		if errors.Cause(err) == rdp.ErrTenantMissing {
			log.Infof("Nothing to do: no tenant id on %s/%s", container, object)
			return OutcomeSkippedNoTenant, nil
		}
		return OutcomeFailed, err
	}

	//

	request := rdp.BuildRequest(rdp.BuildInput{
		InvocationID: invocation,
		Container:    container,
		ObjectKey:    object,
		ContentSize:  e.Data.ContentLength,
		Metadata:     metadata,
		Headers:      headers,
	})
	if n.Verbose {
		payload, _ := json.Marshal(request)
		log.Debugf("Payload: %s", payload)
	}

	if err = n.Client.Create(ctx, headers, request); err != nil {
		return OutcomeFailed, errors.Wrap(err, "could not create binary stream object")
	}

	log.Infof("Created binary stream object %s", request.BinaryStreamObject.ID)
	return OutcomeSubmitted, nil
}
