package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event is one Smartlead webhook payload. Only best-effort extraction is
// performed on it; unknown keys are ignored.
type Event map[string]any

// ParseEvent decodes body into an Event. The body must be a JSON object.
func ParseEvent(body []byte) (Event, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return ev, nil
}

// Recipient returns the recipient sub-object, or an empty one.
func (e Event) Recipient() map[string]any {
	return object(e, "recipient")
}

// Message returns the message sub-object, or an empty one.
func (e Event) Message() map[string]any {
	return object(e, "message")
}

// String returns the text of key, or def when the key is absent or null.
func (e Event) String(key, def string) string {
	return lookup(e, key, def)
}

func object(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

// lookup renders scalar values the way they appear in JSON. Nested objects
// and arrays are rendered as compact JSON.
func lookup(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return def
		}
		return string(b)
	}
}
