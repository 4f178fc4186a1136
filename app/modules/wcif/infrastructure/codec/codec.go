package wcifcodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
)

// Parse decodes a WCIF document into a container. On failure it returns a
// *ParseError and no container.
func Parse(data []byte, opts ...wcifservice.Option) (*wcifservice.Container, error) {
	w, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return wcifservice.NewContainer(w, opts...), nil
}

// Decode decodes a WCIF document without wrapping it in a container.
func Decode(data []byte) (wcifdomain.Wcif, error) {
	var w wcifdomain.Wcif
	if err := json.Unmarshal(data, &w); err != nil {
		return wcifdomain.Wcif{}, toParseError(err)
	}
	return w, nil
}

// Serialize encodes the document with fields in declaration order.
func Serialize(w *wcifdomain.Wcif) ([]byte, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("serialize wcif %s: %w", w.ID, err)
	}
	return data, nil
}

// SerializeIndent is Serialize with two-space indentation.
func SerializeIndent(w *wcifdomain.Wcif) ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize wcif %s: %w", w.ID, err)
	}
	return data, nil
}

func ParseFile(path string, opts ...wcifservice.Option) (*wcifservice.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wcif file: %w", err)
	}
	return Parse(data, opts...)
}

// WriteFile writes the indented document to path.
func WriteFile(path string, w *wcifdomain.Wcif) error {
	data, err := SerializeIndent(w)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write wcif file: %w", err)
	}
	return nil
}

func toParseError(err error) *ParseError {
	var pe *wcifdomain.PathError
	if errors.As(err, &pe) {
		return &ParseError{Path: pe.Path, Message: pe.Err.Error(), Err: err}
	}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Message: fmt.Sprintf("invalid JSON at offset %d: %s", syntax.Offset, syntax.Error()), Err: err}
	}
	return &ParseError{Message: err.Error(), Err: err}
}
