package wcifdomain

import "encoding/json"

// Wcif is the root of a WCIF document.
type Wcif struct {
	FormatVersion   string      `json:"formatVersion"`
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	ShortName       string      `json:"shortName"`
	Persons         []Person    `json:"persons"`
	Events          []Event     `json:"events"`
	Schedule        Schedule    `json:"schedule"`
	CompetitorLimit *uint64     `json:"competitorLimit"`
	Extensions      []Extension `json:"extensions"`
}

func (w *Wcif) UnmarshalJSON(data []byte) error {
	var out Wcif
	err := decodeObject(data,
		required("formatVersion", &out.FormatVersion),
		required("id", &out.ID),
		required("name", &out.Name),
		required("shortName", &out.ShortName),
		sequence("persons", &out.Persons),
		sequence("events", &out.Events),
		required("schedule", &out.Schedule),
		optional("competitorLimit", &out.CompetitorLimit),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*w = out
	return nil
}

func (w Wcif) MarshalJSON() ([]byte, error) {
	type wire Wcif
	out := wire(w)
	out.Persons = nonNil(out.Persons)
	out.Events = nonNil(out.Events)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

// Clone returns a deep copy.
func (w Wcif) Clone() Wcif {
	out := w
	out.CompetitorLimit = clonePtr(w.CompetitorLimit)
	if w.Persons != nil {
		out.Persons = make([]Person, len(w.Persons))
		for i, p := range w.Persons {
			out.Persons[i] = p.Clone()
		}
	}
	if w.Events != nil {
		out.Events = make([]Event, len(w.Events))
		for i, e := range w.Events {
			out.Events[i] = e.Clone()
		}
	}
	out.Schedule = w.Schedule.Clone()
	out.Extensions = cloneExtensions(w.Extensions)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
