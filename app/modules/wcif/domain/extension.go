package wcifdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a JSON value carried through the model without interpretation.
// It is stored compacted; a nil Payload encodes as null.
type Payload []byte

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*p = nil
		return nil
	}
	compacted, err := compact(data)
	if err != nil {
		return err
	}
	*p = compacted
	return nil
}

// Extension is a third-party payload attached to a WCIF node. By convention
// it is an object with id, specUrl and data members, but any JSON value is
// preserved as is.
type Extension []byte

// NewExtension builds an extension object with the conventional members.
func NewExtension(id, specURL string, data any) (Extension, error) {
	raw, err := json.Marshal(struct {
		ID      string `json:"id"`
		SpecURL string `json:"specUrl"`
		Data    any    `json:"data"`
	}{id, specURL, data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extension %q: %w", id, err)
	}
	return Extension(raw), nil
}

func (e Extension) MarshalJSON() ([]byte, error) {
	return Payload(e).MarshalJSON()
}

func (e *Extension) UnmarshalJSON(data []byte) error {
	compacted, err := compact(data)
	if err != nil {
		return err
	}
	*e = compacted
	return nil
}

// ID returns the extension's id member, or "" if it has none.
func (e Extension) ID() string {
	var head struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(e, &head) != nil {
		return ""
	}
	return head.ID
}

// SpecURL returns the extension's specUrl member, or "" if it has none.
func (e Extension) SpecURL() string {
	var head struct {
		SpecURL string `json:"specUrl"`
	}
	if json.Unmarshal(e, &head) != nil {
		return ""
	}
	return head.SpecURL
}

// DecodeData unmarshals the extension's data member into v.
func (e Extension) DecodeData(v any) error {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(e, &body); err != nil {
		return fmt.Errorf("extension is not an object: %w", err)
	}
	if len(body.Data) == 0 {
		return fmt.Errorf("extension %q has no data", e.ID())
	}
	return json.Unmarshal(body.Data, v)
}

// FindExtension returns the first extension with the given id.
func FindExtension(exts []Extension, id string) (Extension, bool) {
	for _, e := range exts {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

func compact(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cloneExtensions(exts []Extension) []Extension {
	if exts == nil {
		return nil
	}
	out := make([]Extension, len(exts))
	for i, e := range exts {
		out[i] = bytes.Clone(e)
	}
	return out
}
