package models

import (
	"encoding/json"
	"fmt"
)

// TaggedEmbedding is a face embedding tagged with the account that owns it.
// The stored wire format is a two-element JSON array, `[[accountID], [v...]]`,
// which keeps provenance next to the vector inside the jsonb column.
type TaggedEmbedding struct {
	AccountID int64
	Vector    []float64
}

func (e TaggedEmbedding) MarshalJSON() ([]byte, error) {
	vector := e.Vector
	if vector == nil {
		vector = []float64{}
	}
	return json.Marshal([2]interface{}{[]int64{e.AccountID}, vector})
}

func (e *TaggedEmbedding) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tagged embedding is not a two-element array: %w", err)
	}

	var tag []int64
	if err := json.Unmarshal(raw[0], &tag); err != nil {
		return fmt.Errorf("invalid embedding tag: %w", err)
	}
	if len(tag) != 1 {
		return fmt.Errorf("embedding tag must hold exactly one account id, got %d", len(tag))
	}

	var vector []float64
	if err := json.Unmarshal(raw[1], &vector); err != nil {
		return fmt.Errorf("invalid embedding vector: %w", err)
	}

	e.AccountID = tag[0]
	e.Vector = vector
	return nil
}
