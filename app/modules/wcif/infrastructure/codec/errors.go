package wcifcodec

import "fmt"

// ParseError reports why a WCIF document was rejected. Path locates the
// offending value (events[0].rounds[1].format) and is empty for syntax errors.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wcif: %s", e.Message)
	}
	return fmt.Sprintf("wcif: %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
