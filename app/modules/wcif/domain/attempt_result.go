package wcifdomain

import (
	"fmt"
	"math"
	"strconv"
)

// AttemptKind distinguishes the variants of an AttemptResult.
type AttemptKind uint8

const (
	AttemptSkip AttemptKind = iota
	AttemptDNF
	AttemptDNS
	AttemptOk
)

func (k AttemptKind) String() string {
	switch k {
	case AttemptSkip:
		return "Skip"
	case AttemptDNF:
		return "DNF"
	case AttemptDNS:
		return "DNS"
	case AttemptOk:
		return "Ok"
	default:
		return fmt.Sprintf("AttemptKind(%d)", uint8(k))
	}
}

// wire sentinels for the non-measured variants.
const (
	wireDNF  int64 = -1
	wireDNS  int64 = -2
	wireSkip int64 = 0
)

// AttemptResult is a measured result in centiseconds or one of the DNF, DNS
// and Skip sentinels. The zero value is Skip.
type AttemptResult struct {
	kind  AttemptKind
	value uint64
}

var (
	DNF  = AttemptResult{kind: AttemptDNF}
	DNS  = AttemptResult{kind: AttemptDNS}
	Skip = AttemptResult{kind: AttemptSkip}
)

// Ok returns a measured result. Zero centiseconds is the Skip sentinel.
func Ok(centiseconds uint64) AttemptResult {
	if centiseconds == 0 {
		return Skip
	}
	return AttemptResult{kind: AttemptOk, value: centiseconds}
}

// AttemptResultFromInt decodes the signed wire encoding.
func AttemptResultFromInt(v int64) (AttemptResult, error) {
	switch {
	case v == wireDNF:
		return DNF, nil
	case v == wireDNS:
		return DNS, nil
	case v == wireSkip:
		return Skip, nil
	case v > 0:
		return Ok(uint64(v)), nil
	default:
		return AttemptResult{}, fmt.Errorf("%w: %d", ErrMalformedAttemptResult, v)
	}
}

// AttemptResultFromUint decodes an unsigned wire value; 0 is Skip.
func AttemptResultFromUint(v uint64) AttemptResult {
	return Ok(v)
}

func (a AttemptResult) Kind() AttemptKind { return a.kind }

// Centiseconds returns the measured value and whether the result is Ok.
func (a AttemptResult) Centiseconds() (uint64, bool) {
	return a.value, a.kind == AttemptOk
}

func (a AttemptResult) IsOk() bool { return a.kind == AttemptOk }

func (a AttemptResult) Equal(b AttemptResult) bool {
	return a.kind == b.kind && a.value == b.value
}

// Better reports whether a ranks ahead of b: measured results beat sentinels
// and lower times beat higher ones.
func (a AttemptResult) Better(b AttemptResult) bool {
	if a.kind != AttemptOk {
		return false
	}
	if b.kind != AttemptOk {
		return true
	}
	return a.value < b.value
}

func (a AttemptResult) String() string {
	if a.kind == AttemptOk {
		return fmt.Sprintf("Ok(%d)", a.value)
	}
	return a.kind.String()
}

// wire returns the integer literal of the encoding.
func (a AttemptResult) wire() []byte {
	switch a.kind {
	case AttemptDNF:
		return strconv.AppendInt(nil, wireDNF, 10)
	case AttemptDNS:
		return strconv.AppendInt(nil, wireDNS, 10)
	case AttemptOk:
		return strconv.AppendUint(nil, a.value, 10)
	default:
		return strconv.AppendInt(nil, wireSkip, 10)
	}
}

// Int returns the signed encoding; measured values beyond int64 saturate.
func (a AttemptResult) Int() int64 {
	switch a.kind {
	case AttemptDNF:
		return wireDNF
	case AttemptDNS:
		return wireDNS
	case AttemptOk:
		if a.value > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(a.value)
	default:
		return wireSkip
	}
}

func (a AttemptResult) MarshalJSON() ([]byte, error) {
	return a.wire(), nil
}

func (a *AttemptResult) UnmarshalJSON(data []byte) error {
	s := string(data)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		r, err := AttemptResultFromInt(v)
		if err != nil {
			return err
		}
		*a = r
		return nil
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		*a = AttemptResultFromUint(v)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMalformedAttemptResult, s)
}
