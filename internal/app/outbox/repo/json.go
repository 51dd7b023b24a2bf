package repo

import "encoding/json"

// jsonValue keeps pre-serialized payloads from being encoded twice by NullJSON.
func jsonValue(payload string) interface{} {
	if payload == "" {
		return nil
	}
	return json.RawMessage(payload)
}
