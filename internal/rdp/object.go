package rdp

import (
	"path"
	"strings"
)

// Descriptor property names.
const (
	PropObjectKey        = "objectKey"
	PropOriginalFileName = "originalFileName"
	PropFullObjectPath   = "fullObjectPath"
	PropContentSize      = "contentSize"
	PropUser             = "user"
	PropRole             = "role"
	PropOwnershipData    = "ownershipData"
)

// ObjectType is the catalog type of every registered descriptor.
const ObjectType = "binarystreamobject"

type (
	// A CreateRequest is the payload POSTed to the binarystreamobjectservice.
	CreateRequest struct {
		ClientAttributes   ClientAttributes   `json:"clientAttributes"`
		BinaryStreamObject BinaryStreamObject `json:"binaryStreamObject"`
	}

	// ClientAttributes carries the task id the uploader attached to the
	// object, so the catalog can correlate the registration with the task
	// that produced the upload.
	ClientAttributes struct {
		TaskID string `json:"taskId"`
	}

	// A BinaryStreamObject describes one uploaded object for the catalog.
	BinaryStreamObject struct {
		ID         string                 `json:"id"`
		Type       string                 `json:"type"`
		Properties map[string]interface{} `json:"properties"`
	}
)

// A BuildInput gathers everything the descriptor is derived from: the
// invocation identity, the parsed subject, the event payload and the
// object's normalized metadata with the headers derived from it.
type BuildInput struct {
	InvocationID string
	Container    string
	ObjectKey    string
	ContentSize  int64
	Metadata     map[string]string // normalized, see NormalizeMetadata
	Headers      Headers
}

// BuildRequest assembles the create payload.
//
// The object id is the metadata `binarystreamobjectid' when present, else the
// invocation id. The original file name is the metadata `originalfilename'
// when present (the key is then consumed so it does not show up twice), else
// the last path segment of the object key. Every remaining metadata key that
// is not reserved and does not collide with a fixed property is copied
// verbatim into the properties.
func BuildRequest(in BuildInput) CreateRequest {
	properties := map[string]interface{}{
		PropObjectKey:      in.ObjectKey,
		PropFullObjectPath: path.Join(in.Container, in.ObjectKey),
		PropContentSize:    in.ContentSize,
		PropUser:           in.Headers.UserID,
		PropRole:           in.Headers.UserRoles,
	}
	if in.Headers.OwnershipData != "" {
		properties[PropOwnershipData] = in.Headers.OwnershipData
	}

	id := in.Metadata[KeyObjectID]
	if id == "" {
		id = in.InvocationID
	}

	original := in.Metadata[KeyOriginalName]
	if original == "" {
		original = path.Base(in.ObjectKey)
	}
	properties[PropOriginalFileName] = original

	for key, value := range in.Metadata {
		if key == KeyOriginalName { // consumed above
			continue
		}
		if strings.HasPrefix(key, canonicalPrefix) {
			continue
		}
		if fixedProperty(key) {
			continue
		}
		properties[key] = value
	}

	return CreateRequest{
		ClientAttributes: ClientAttributes{TaskID: taskID(in)},
		BinaryStreamObject: BinaryStreamObject{
			ID:         id,
			Type:       ObjectType,
			Properties: properties,
		},
	}
}

// taskID resolves the task the upload belongs to. Historic producers wrote
// the task id under the literal key `task_id_metadata_property' instead of
// `x-rdp-taskid'; both spellings are honored, canonical first.
func taskID(in BuildInput) string {
	if id := in.Metadata[KeyTaskID]; id != "" {
		return id
	}
	if id := in.Metadata[keyTaskIDLegacy]; id != "" {
		return id
	}
	return in.InvocationID
}

// fixedProperty reports whether a normalized metadata key would collide with
// one of the fixed descriptor properties.
func fixedProperty(key string) bool {
	switch key {
	case strings.ToLower(PropObjectKey),
		strings.ToLower(PropOriginalFileName),
		strings.ToLower(PropFullObjectPath),
		strings.ToLower(PropContentSize),
		PropUser,
		PropRole,
		strings.ToLower(PropOwnershipData):
		return true
	}
	return false
}
