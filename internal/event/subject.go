package event

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNotApplicable means the subject does not designate an object this
// service handles. It is not a failure; the invocation completes without
// any further action.
var ErrNotApplicable = errors.New("subject not applicable")

// Subject segment count and positions for a top-level object:
// ["", "blobServices", "default", "containers", <container>, "blobs", <object>]
const (
	subjectSegments  = 7
	containerSegment = 4
)

// ParseSubject takes the event subject and extracts the container and the
// object. Subjects whose segment count differs from the canonical seven are
// rejected with ErrNotApplicable; this filters out nested-path objects,
// which are never registered in the catalog.
func ParseSubject(subject string) (container, object string, err error) {
	segments := strings.Split(subject, "/")
	if len(segments) != subjectSegments {
		return "", "", errors.Wrapf(ErrNotApplicable, "subject %q has %d segments", subject, len(segments))
	}

	container = segments[containerSegment]
	object = segments[subjectSegments-1]
	if container == "" || object == "" {
		return "", "", errors.Wrapf(ErrNotApplicable, "subject %q has empty segments", subject)
	}

	return container, object, nil
}
