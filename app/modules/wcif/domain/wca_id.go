package wcifdomain

import (
	"encoding/json"
	"fmt"
)

const wcaIDLength = 10

// WCAID is the global competitor identifier YYYYAAAANN: the year of the first
// competition, four letters derived from the name and a sequence number.
type WCAID struct {
	Year    uint16
	Letters [4]byte
	Number  uint8
}

// ParseWCAID decodes a 10-character WCA ID. The letters are not validated.
func ParseWCAID(s string) (WCAID, error) {
	if len(s) != wcaIDLength {
		return WCAID{}, fmt.Errorf("%w: %q has length %d, want %d", ErrMalformedWCAID, s, len(s), wcaIDLength)
	}
	year, ok := parseDigits(s[0:4])
	if !ok {
		return WCAID{}, fmt.Errorf("%w: %q has a non-numeric year", ErrMalformedWCAID, s)
	}
	number, ok := parseDigits(s[8:10])
	if !ok {
		return WCAID{}, fmt.Errorf("%w: %q has a non-numeric sequence number", ErrMalformedWCAID, s)
	}

	id := WCAID{Year: uint16(year), Number: uint8(number)}
	copy(id.Letters[:], s[4:8])
	return id, nil
}

func (id WCAID) String() string {
	return fmt.Sprintf("%04d%s%02d", id.Year, id.Letters[:], id.Number)
}

func (id WCAID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *WCAID) UnmarshalText(text []byte) error {
	parsed, err := ParseWCAID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id WCAID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *WCAID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedWCAID, err)
	}
	return id.UnmarshalText([]byte(s))
}

// parseDigits accepts ASCII decimal digits only; no sign, no spaces.
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
