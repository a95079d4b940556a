package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns a job event payload as T, for example JobXPAwardedPayloadV1.
// Payloads published on the MemoryBus are already typed. Payloads read back from
// the dead-letter file arrive as generic JSON maps and are converted through JSON.
func DecodePayload[T any](payload interface{}) (T, error) {
	var result T
	if typed, ok := payload.(T); ok {
		return typed, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return result, fmt.Errorf("failed to encode %T payload: %w", payload, err)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("failed to decode payload as %T: %w", result, err)
	}
	return result, nil
}
