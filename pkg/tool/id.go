package tool

import (
	"encoding/json"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// StableKey returns the JSON encoding of v as a string. Struct fields are encoded
// in declaration order, so two structurally equal values share a key.
func StableKey(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
