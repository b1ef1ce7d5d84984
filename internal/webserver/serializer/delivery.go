package serializer

import (
	"fmt"

	"github.com/mdouchement/uploadnotifier/internal/event"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
)

// Result returns the serialized outcome of the given event.
func Result(e event.Event, outcome notifier.Outcome, err error) map[string]interface{} {
	result := map[string]interface{}{
		"id":      e.ID,
		"outcome": outcome.String(),
	}
	if err != nil {
		result["error"] = err.Error()
	}

	return result
}

// Delivery returns the serialized summary of a processed delivery.
// The validation code, when not empty, answers a handshake that rode along
// the delivery.
func Delivery(results []map[string]interface{}, validationCode string) map[string]interface{} {
	payload := map[string]interface{}{
		"results": results,
	}
	if validationCode != "" {
		payload["validationResponse"] = validationCode
	}

	return payload
}

// Failure returns the summary of a delivery whose events did not all make
// it, the outcome of every event included.
func Failure(failures, total int, results []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"message": fmt.Sprintf("%d of %d events failed", failures, total),
		"results": results,
	}
}

// Validation returns the payload answering a subscription handshake.
func Validation(code string) map[string]interface{} {
	return map[string]interface{}{
		"validationResponse": code,
	}
}
