package wcifdomain

import (
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Event is a puzzle category held at the competition.
type Event struct {
	ID              string      `json:"id"`
	Rounds          []Round     `json:"rounds"`
	CompetitorLimit *uint64     `json:"competitorLimit"`
	Qualification   Payload     `json:"qualification"`
	Extensions      []Extension `json:"extensions"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var out Event
	err := decodeObject(data,
		required("id", &out.ID),
		sequence("rounds", &out.Rounds),
		optional("competitorLimit", &out.CompetitorLimit),
		payload("qualification", &out.Qualification),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*e = out
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	type wire Event
	out := wire(e)
	out.Rounds = nonNil(out.Rounds)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

func (e Event) Clone() Event {
	out := e
	if e.Rounds != nil {
		out.Rounds = make([]Round, len(e.Rounds))
		for i, r := range e.Rounds {
			out.Rounds[i] = r.Clone()
		}
	}
	out.CompetitorLimit = clonePtr(e.CompetitorLimit)
	out.Qualification = slices.Clone(e.Qualification)
	out.Extensions = cloneExtensions(e.Extensions)
	return out
}

// RoundFormat is the single-character code of a round format.
type RoundFormat rune

const (
	FormatBestOf1 RoundFormat = '1'
	FormatBestOf2 RoundFormat = '2'
	FormatBestOf3 RoundFormat = '3'
	FormatAverage RoundFormat = 'a'
	FormatMean    RoundFormat = 'm'
)

// Attempts returns the number of attempts the format prescribes, or 0 for
// unrecognized formats.
func (f RoundFormat) Attempts() int {
	switch f {
	case FormatBestOf1:
		return 1
	case FormatBestOf2:
		return 2
	case FormatBestOf3, FormatMean:
		return 3
	case FormatAverage:
		return 5
	default:
		return 0
	}
}

func (f RoundFormat) String() string { return string(f) }

func (f RoundFormat) MarshalText() ([]byte, error) {
	return []byte(string(f)), nil
}

func (f *RoundFormat) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if size == 0 || size != len(text) || r == utf8.RuneError {
		return fmt.Errorf("%w: %q", ErrInvalidRoundFormat, text)
	}
	*f = RoundFormat(r)
	return nil
}

// Round is one phase of an event.
type Round struct {
	ID                   string                `json:"id"`
	Format               RoundFormat           `json:"format"`
	TimeLimit            *TimeLimit            `json:"timeLimit"`
	Cutoff               *Cutoff               `json:"cutoff"`
	AdvancementCondition *AdvancementCondition `json:"advancementCondition"`
	Results              []Result              `json:"results"`
	ScrambleSetCount     uint64                `json:"scrambleSetCount"`
	Extensions           []Extension           `json:"extensions"`
}

func (r *Round) UnmarshalJSON(data []byte) error {
	var out Round
	err := decodeObject(data,
		required("id", &out.ID),
		required("format", &out.Format),
		optional("timeLimit", &out.TimeLimit),
		optional("cutoff", &out.Cutoff),
		optional("advancementCondition", &out.AdvancementCondition),
		sequence("results", &out.Results),
		required("scrambleSetCount", &out.ScrambleSetCount),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Round) MarshalJSON() ([]byte, error) {
	type wire Round
	out := wire(r)
	out.Results = nonNil(out.Results)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

// Code parses the round id as an activity code.
func (r *Round) Code() ActivityCode {
	return ParseActivityCode(r.ID)
}

func (r Round) Clone() Round {
	out := r
	if r.TimeLimit != nil {
		tl := r.TimeLimit.Clone()
		out.TimeLimit = &tl
	}
	out.Cutoff = clonePtr(r.Cutoff)
	out.AdvancementCondition = clonePtr(r.AdvancementCondition)
	if r.Results != nil {
		out.Results = make([]Result, len(r.Results))
		for i, res := range r.Results {
			out.Results[i] = res.Clone()
		}
	}
	out.Extensions = cloneExtensions(r.Extensions)
	return out
}

// TimeLimit bounds each attempt, optionally cumulatively across rounds.
type TimeLimit struct {
	Centiseconds       uint64   `json:"centiseconds"`
	CumulativeRoundIDs []string `json:"cumulativeRoundIds"`
}

func (t *TimeLimit) UnmarshalJSON(data []byte) error {
	var out TimeLimit
	err := decodeObject(data,
		required("centiseconds", &out.Centiseconds),
		sequence("cumulativeRoundIds", &out.CumulativeRoundIDs),
	)
	if err != nil {
		return err
	}
	*t = out
	return nil
}

func (t TimeLimit) MarshalJSON() ([]byte, error) {
	type wire TimeLimit
	out := wire(t)
	out.CumulativeRoundIDs = nonNil(out.CumulativeRoundIDs)
	return json.Marshal(out)
}

func (t TimeLimit) Clone() TimeLimit {
	out := t
	out.CumulativeRoundIDs = slices.Clone(t.CumulativeRoundIDs)
	return out
}

// Cutoff requires a result better than AttemptResult within the first
// NumberOfAttempts attempts to continue the round.
type Cutoff struct {
	NumberOfAttempts uint64        `json:"numberOfAttempts"`
	AttemptResult    AttemptResult `json:"attemptResult"`
}

func (c *Cutoff) UnmarshalJSON(data []byte) error {
	var out Cutoff
	err := decodeObject(data,
		required("numberOfAttempts", &out.NumberOfAttempts),
		required("attemptResult", &out.AttemptResult),
	)
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// AdvancementType tags the variants of an AdvancementCondition.
type AdvancementType string

const (
	AdvancementPercent       AdvancementType = "percent"
	AdvancementRanking       AdvancementType = "ranking"
	AdvancementAttemptResult AdvancementType = "attemptResult"
)

// AdvancementCondition decides who proceeds to the next round. For
// AdvancementAttemptResult the level is raw centiseconds.
type AdvancementCondition struct {
	Type  AdvancementType `json:"type"`
	Level uint64          `json:"level"`
}

func PercentAdvancement(level uint64) AdvancementCondition {
	return AdvancementCondition{Type: AdvancementPercent, Level: level}
}

func RankingAdvancement(level uint64) AdvancementCondition {
	return AdvancementCondition{Type: AdvancementRanking, Level: level}
}

func AttemptResultAdvancement(centiseconds uint64) AdvancementCondition {
	return AdvancementCondition{Type: AdvancementAttemptResult, Level: centiseconds}
}

func (a *AdvancementCondition) UnmarshalJSON(data []byte) error {
	var out AdvancementCondition
	err := decodeObject(data,
		required("type", &out.Type),
		required("level", &out.Level),
	)
	if err != nil {
		return err
	}
	switch out.Type {
	case AdvancementPercent, AdvancementRanking, AdvancementAttemptResult:
	default:
		return atField("type", fmt.Errorf("%w: %q", ErrUnknownAdvancementType, out.Type))
	}
	*a = out
	return nil
}

func (a AdvancementCondition) String() string {
	return fmt.Sprintf("%s(%d)", a.Type, a.Level)
}

// Result is one person's outcome in a round.
type Result struct {
	PersonID uint64        `json:"personId"`
	Ranking  *uint64       `json:"ranking"`
	Attempts []Attempt     `json:"attempts"`
	Best     AttemptResult `json:"best"`
	Average  AttemptResult `json:"average"`
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var out Result
	err := decodeObject(data,
		required("personId", &out.PersonID),
		optional("ranking", &out.Ranking),
		sequence("attempts", &out.Attempts),
		required("best", &out.Best),
		required("average", &out.Average),
	)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	type wire Result
	out := wire(r)
	out.Attempts = nonNil(out.Attempts)
	return json.Marshal(out)
}

func (r Result) Clone() Result {
	out := r
	out.Ranking = clonePtr(r.Ranking)
	if r.Attempts != nil {
		out.Attempts = make([]Attempt, len(r.Attempts))
		for i, a := range r.Attempts {
			out.Attempts[i] = Attempt{Result: a.Result, Reconstruction: clonePtr(a.Reconstruction)}
		}
	}
	return out
}

// Attempt is a single solve.
type Attempt struct {
	Result         AttemptResult `json:"result"`
	Reconstruction *string       `json:"reconstruction"`
}

func (a *Attempt) UnmarshalJSON(data []byte) error {
	var out Attempt
	err := decodeObject(data,
		required("result", &out.Result),
		optional("reconstruction", &out.Reconstruction),
	)
	if err != nil {
		return err
	}
	*a = out
	return nil
}
