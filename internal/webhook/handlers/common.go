// Package handlers contains the business reactions to normalized webhook
// events. Each handler claims the event types it cares about and publishes
// a domain notification; none of them talk back to the payment provider.
package handlers

import (
	"encoding/json"
	"fmt"

	"ledgerpay/internal/gateway"
)

// objRef decodes a provider object reference that arrives either as a bare
// ID string or as an embedded object with an "id" field.
type objRef string

func (r *objRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = objRef(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = objRef(obj.ID)
	return nil
}

func unmarshalObject(event *gateway.WebhookEvent, v any) error {
	if len(event.RawObject) == 0 {
		return fmt.Errorf("event %s has no data object", event.EventID)
	}
	if err := json.Unmarshal(event.RawObject, v); err != nil {
		return fmt.Errorf("decode %s object: %w", event.RawType, err)
	}
	return nil
}
