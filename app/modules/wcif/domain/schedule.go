package wcifdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Schedule lays out the competition days and venues.
type Schedule struct {
	StartDate    Date    `json:"startDate"`
	NumberOfDays uint64  `json:"numberOfDays"`
	Venues       []Venue `json:"venues"`
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var out Schedule
	err := decodeObject(data,
		required("startDate", &out.StartDate),
		required("numberOfDays", &out.NumberOfDays),
		sequence("venues", &out.Venues),
	)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	type wire Schedule
	out := wire(s)
	out.Venues = nonNil(out.Venues)
	return json.Marshal(out)
}

// EndDate returns the last day of the competition.
func (s *Schedule) EndDate() Date {
	if s.NumberOfDays == 0 {
		return s.StartDate
	}
	return s.StartDate.AddDays(int(s.NumberOfDays) - 1)
}

func (s Schedule) Clone() Schedule {
	out := s
	if s.Venues != nil {
		out.Venues = make([]Venue, len(s.Venues))
		for i, v := range s.Venues {
			out.Venues[i] = v.Clone()
		}
	}
	return out
}

// Venue is a physical location. Coordinates are in microdegrees.
type Venue struct {
	ID                    uint64      `json:"id"`
	Name                  string      `json:"name"`
	LatitudeMicrodegrees  int64       `json:"latitudeMicrodegrees"`
	LongitudeMicrodegrees int64       `json:"longitudeMicrodegrees"`
	CountryIso2           string      `json:"countryIso2"`
	Timezone              string      `json:"timezone"`
	Rooms                 []Room      `json:"rooms"`
	Extensions            []Extension `json:"extensions"`
}

func (v *Venue) UnmarshalJSON(data []byte) error {
	var out Venue
	err := decodeObject(data,
		required("id", &out.ID),
		required("name", &out.Name),
		required("latitudeMicrodegrees", &out.LatitudeMicrodegrees),
		required("longitudeMicrodegrees", &out.LongitudeMicrodegrees),
		required("countryIso2", &out.CountryIso2),
		required("timezone", &out.Timezone),
		sequence("rooms", &out.Rooms),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func (v Venue) MarshalJSON() ([]byte, error) {
	type wire Venue
	out := wire(v)
	out.Rooms = nonNil(out.Rooms)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

// Location loads the venue's IANA time zone.
func (v *Venue) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("venue %d: %w", v.ID, err)
	}
	return loc, nil
}

// Coordinates returns latitude and longitude in degrees.
func (v *Venue) Coordinates() (lat, lng float64) {
	return float64(v.LatitudeMicrodegrees) / 1e6, float64(v.LongitudeMicrodegrees) / 1e6
}

func (v Venue) Clone() Venue {
	out := v
	if v.Rooms != nil {
		out.Rooms = make([]Room, len(v.Rooms))
		for i, r := range v.Rooms {
			out.Rooms[i] = r.Clone()
		}
	}
	out.Extensions = cloneExtensions(v.Extensions)
	return out
}

// Room is a stage within a venue.
type Room struct {
	ID         uint64      `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color"`
	Activities []Activity  `json:"activities"`
	Extensions []Extension `json:"extensions"`
}

func (r *Room) UnmarshalJSON(data []byte) error {
	var out Room
	err := decodeObject(data,
		required("id", &out.ID),
		required("name", &out.Name),
		required("color", &out.Color),
		sequence("activities", &out.Activities),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Room) MarshalJSON() ([]byte, error) {
	type wire Room
	out := wire(r)
	out.Activities = nonNil(out.Activities)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

func (r Room) Clone() Room {
	out := r
	out.Activities = cloneActivities(r.Activities)
	out.Extensions = cloneExtensions(r.Extensions)
	return out
}

// Activity is a scheduled block: a round, a group, an attempt or something
// else entirely (lunch, registration). Children lie within the parent's time range.
type Activity struct {
	ID              uint64      `json:"id"`
	Name            string      `json:"name"`
	ActivityCode    string      `json:"activityCode"`
	StartTime       Timestamp   `json:"startTime"`
	EndTime         Timestamp   `json:"endTime"`
	ChildActivities []Activity  `json:"childActivities"`
	ScrambleSetID   *uint64     `json:"scrambleSetId"`
	Extensions      []Extension `json:"extensions"`
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	var out Activity
	err := decodeObject(data,
		required("id", &out.ID),
		required("name", &out.Name),
		required("activityCode", &out.ActivityCode),
		required("startTime", &out.StartTime),
		required("endTime", &out.EndTime),
		sequence("childActivities", &out.ChildActivities),
		optional("scrambleSetId", &out.ScrambleSetID),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	if out.EndTime.Before(out.StartTime) {
		return atField("endTime", fmt.Errorf("%w: %s < %s", ErrInvalidTimeRange, out.EndTime, out.StartTime))
	}
	*a = out
	return nil
}

func (a Activity) MarshalJSON() ([]byte, error) {
	type wire Activity
	out := wire(a)
	out.ChildActivities = nonNil(out.ChildActivities)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

// Code parses the activity code.
func (a *Activity) Code() ActivityCode {
	return ParseActivityCode(a.ActivityCode)
}

// Duration is EndTime - StartTime.
func (a *Activity) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// Overlaps reports whether the half-open time ranges of a and b intersect.
// An activity never overlaps an activity equal to itself.
func (a *Activity) Overlaps(b *Activity) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime) && !a.Equal(*b)
}

// Equal compares activities field by field, children included.
func (a Activity) Equal(b Activity) bool {
	if a.ID != b.ID || a.Name != b.Name || a.ActivityCode != b.ActivityCode {
		return false
	}
	if !a.StartTime.Equal(b.StartTime) || !a.EndTime.Equal(b.EndTime) {
		return false
	}
	if (a.ScrambleSetID == nil) != (b.ScrambleSetID == nil) {
		return false
	}
	if a.ScrambleSetID != nil && *a.ScrambleSetID != *b.ScrambleSetID {
		return false
	}
	if len(a.Extensions) != len(b.Extensions) || len(a.ChildActivities) != len(b.ChildActivities) {
		return false
	}
	for i := range a.Extensions {
		if !bytes.Equal(a.Extensions[i], b.Extensions[i]) {
			return false
		}
	}
	for i := range a.ChildActivities {
		if !a.ChildActivities[i].Equal(b.ChildActivities[i]) {
			return false
		}
	}
	return true
}

func (a Activity) Clone() Activity {
	out := a
	out.ChildActivities = cloneActivities(a.ChildActivities)
	out.ScrambleSetID = clonePtr(a.ScrambleSetID)
	out.Extensions = cloneExtensions(a.Extensions)
	return out
}

func cloneActivities(as []Activity) []Activity {
	if as == nil {
		return nil
	}
	out := make([]Activity, len(as))
	for i, a := range as {
		out[i] = a.Clone()
	}
	return out
}
