package types

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

// OwnerKey is the local identity a subscription document belongs to, e.g.
// ["org_1", "project_7"]. The provider echoes it back through passthrough.
type OwnerKey []string

// DocumentKey is the store key of the owner's subscription document.
func (k OwnerKey) DocumentKey() string {
	return strings.Join(k, "/")
}

func (k OwnerKey) Valid() bool {
	return len(k) > 0 && !lo.Contains(k, "")
}

// Equal compares element by element, order included.
func (k OwnerKey) Equal(other OwnerKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Passthrough is the correlation payload handed to the provider at checkout and
// echoed back as a JSON document inside a string field. It is parsed once while
// decoding; a missing or malformed payload yields Valid == false instead of a
// decode error so callers can report it with their own error class.
type Passthrough struct {
	IDs   OwnerKey
	Valid bool
	Raw   string
}

type passthroughBody struct {
	IDs json.RawMessage `json:"ids"`
}

// ParsePassthrough parses the raw passthrough string.
func ParsePassthrough(raw string) Passthrough {
	p := Passthrough{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		return p
	}
	var body passthroughBody
	if err := json.Unmarshal([]byte(raw), &body); err != nil || len(body.IDs) == 0 {
		return p
	}
	var ids []string
	if err := json.Unmarshal(body.IDs, &ids); err != nil || ids == nil {
		return p
	}
	p.IDs = ids
	p.Valid = true
	return p
}

// EncodePassthrough renders an owner key the way ParsePassthrough expects it.
func EncodePassthrough(owner OwnerKey) string {
	b, _ := json.Marshal(struct {
		IDs []string `json:"ids"`
	}{IDs: owner})
	return string(b)
}

func (p *Passthrough) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not a string at all; keep the invalid marker rather than failing the
		// whole record.
		*p = Passthrough{Raw: string(data)}
		return nil
	}
	if raw == nil {
		*p = Passthrough{}
		return nil
	}
	*p = ParsePassthrough(*raw)
	return nil
}

func (p Passthrough) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Raw)
}
