package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Minutes keeps the upstream "min" value as delivered. balldontlie has sent
// it as "MM:SS" strings, bare numeric strings and plain numbers over time, so
// interpretation is left to the dataset builder.
type Minutes struct {
	raw any
}

// MinutesOf wraps a raw value (nil, string, json.Number or a Go number).
func MinutesOf(v any) Minutes {
	return Minutes{raw: v}
}

// Value returns the wrapped raw value; nil when the field was absent or null.
func (m Minutes) Value() any {
	return m.raw
}

func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.raw)
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("minutes: %w", err)
	}
	switch v.(type) {
	case nil, string, json.Number:
		m.raw = v
		return nil
	default:
		return fmt.Errorf("minutes: unsupported value %s", bytes.TrimSpace(data))
	}
}
