package wcifdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// field describes how one member of a JSON object is decoded.
type field struct {
	name     string
	required bool
	decode   func(raw json.RawMessage) error
}

// decodeObject walks a JSON object member by member. Unknown keys are skipped,
// duplicate keys are rejected and required fields must be present.
func decodeObject(data []byte, fields ...field) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w, got %s", ErrNotObject, describeToken(tok))
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.name] = i
	}
	seen := make(map[string]struct{}, len(fields))

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected object key %v", ErrNotObject, tok)
		}
		if _, dup := seen[key]; dup {
			return atField(key, ErrDuplicateKey)
		}
		seen[key] = struct{}{}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return atField(key, err)
		}
		i, known := index[key]
		if !known {
			continue
		}
		if err := fields[i].decode(raw); err != nil {
			return atField(key, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	for _, f := range fields {
		if !f.required {
			continue
		}
		if _, ok := seen[f.name]; !ok {
			return atField(f.name, ErrMissingField)
		}
	}
	return nil
}

// decodeArray decodes a JSON array element by element so failures carry the
// element index. The result is never nil.
func decodeArray[T any](raw json.RawMessage, dst *[]T) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("%w, got %s", ErrNotArray, describeToken(tok))
	}

	out := make([]T, 0)
	for i := 0; dec.More(); i++ {
		var elem json.RawMessage
		if err := dec.Decode(&elem); err != nil {
			return atIndex(i, err)
		}
		if isNull(elem) {
			return atIndex(i, ErrNullField)
		}
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			return atIndex(i, err)
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*dst = out
	return nil
}

func required[T any](name string, dst *T) field {
	return field{name: name, required: true, decode: func(raw json.RawMessage) error {
		if isNull(raw) {
			return ErrNullField
		}
		return json.Unmarshal(raw, dst)
	}}
}

// optional decodes a nullable field; absence and null both leave dst nil.
func optional[T any](name string, dst **T) field {
	return field{name: name, decode: func(raw json.RawMessage) error {
		if isNull(raw) {
			*dst = nil
			return nil
		}
		v := new(T)
		if err := json.Unmarshal(raw, v); err != nil {
			return err
		}
		*dst = v
		return nil
	}}
}

func sequence[T any](name string, dst *[]T) field {
	return field{name: name, required: true, decode: func(raw json.RawMessage) error {
		if isNull(raw) {
			return ErrNullField
		}
		return decodeArray(raw, dst)
	}}
}

func payload(name string, dst *Payload) field {
	return field{name: name, decode: func(raw json.RawMessage) error {
		return dst.UnmarshalJSON(raw)
	}}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return "object"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", tok)
	}
}

// nonNil substitutes an empty slice so sequences are emitted as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
