package wcifdomain

import (
	"encoding/json"
	"slices"
)

// Person is a registrant, staff member or other participant.
type Person struct {
	RegistrantID  *uint64        `json:"registrantId"`
	Name          string         `json:"name"`
	WcaUserID     uint64         `json:"wcaUserId"`
	WcaID         *WCAID         `json:"wcaId"`
	CountryIso2   string         `json:"countryIso2"`
	Gender        string         `json:"gender"`
	Birthdate     *Date          `json:"birthdate"`
	Email         *string        `json:"email"`
	Avatar        *Avatar        `json:"avatar"`
	Roles         []Role         `json:"roles"`
	Registration  *Registration  `json:"registration"`
	Assignments   []Assignment   `json:"assignments"`
	PersonalBests []PersonalBest `json:"personalBests"`
	Extensions    []Extension    `json:"extensions"`
}

func (p *Person) UnmarshalJSON(data []byte) error {
	var out Person
	err := decodeObject(data,
		optional("registrantId", &out.RegistrantID),
		required("name", &out.Name),
		required("wcaUserId", &out.WcaUserID),
		optional("wcaId", &out.WcaID),
		required("countryIso2", &out.CountryIso2),
		required("gender", &out.Gender),
		optional("birthdate", &out.Birthdate),
		optional("email", &out.Email),
		optional("avatar", &out.Avatar),
		sequence("roles", &out.Roles),
		optional("registration", &out.Registration),
		sequence("assignments", &out.Assignments),
		sequence("personalBests", &out.PersonalBests),
		sequence("extensions", &out.Extensions),
	)
	if err != nil {
		return err
	}
	*p = out
	return nil
}

func (p Person) MarshalJSON() ([]byte, error) {
	type wire Person
	out := wire(p)
	out.Roles = nonNil(out.Roles)
	out.Assignments = nonNil(out.Assignments)
	out.PersonalBests = nonNil(out.PersonalBests)
	out.Extensions = nonNil(out.Extensions)
	return json.Marshal(out)
}

// HasRole reports whether the person holds role r.
func (p *Person) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}

// IsDelegate reports whether the person is a delegate or trainee delegate.
func (p *Person) IsDelegate() bool {
	return slices.ContainsFunc(p.Roles, Role.IsDelegate)
}

// IsCompeting reports whether the person has an accepted, competing registration.
func (p *Person) IsCompeting() bool {
	return p.Registration != nil && p.Registration.IsCompeting && p.Registration.Status == RegistrationAccepted
}

func (p Person) Clone() Person {
	out := p
	out.RegistrantID = clonePtr(p.RegistrantID)
	out.WcaID = clonePtr(p.WcaID)
	out.Birthdate = clonePtr(p.Birthdate)
	out.Email = clonePtr(p.Email)
	out.Avatar = clonePtr(p.Avatar)
	out.Roles = slices.Clone(p.Roles)
	if p.Registration != nil {
		r := p.Registration.Clone()
		out.Registration = &r
	}
	if p.Assignments != nil {
		out.Assignments = make([]Assignment, len(p.Assignments))
		for i, a := range p.Assignments {
			out.Assignments[i] = a.Clone()
		}
	}
	out.PersonalBests = slices.Clone(p.PersonalBests)
	out.Extensions = cloneExtensions(p.Extensions)
	return out
}

// Registration status values emitted by the service.
const (
	RegistrationAccepted = "accepted"
	RegistrationPending  = "pending"
	RegistrationDeleted  = "deleted"
)

// Registration is a person's registration for the competition.
type Registration struct {
	WcaRegistrationID uint64   `json:"wcaRegistrationId"`
	EventIDs          []string `json:"eventIds"`
	Status            string   `json:"status"`
	Guests            *uint64  `json:"guests"`
	Comments          *string  `json:"comments"`
	IsCompeting       bool     `json:"isCompeting"`
}

func (r *Registration) UnmarshalJSON(data []byte) error {
	var out Registration
	err := decodeObject(data,
		required("wcaRegistrationId", &out.WcaRegistrationID),
		sequence("eventIds", &out.EventIDs),
		required("status", &out.Status),
		optional("guests", &out.Guests),
		optional("comments", &out.Comments),
		required("isCompeting", &out.IsCompeting),
	)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

func (r Registration) MarshalJSON() ([]byte, error) {
	type wire Registration
	out := wire(r)
	out.EventIDs = nonNil(out.EventIDs)
	return json.Marshal(out)
}

func (r Registration) Clone() Registration {
	out := r
	out.EventIDs = slices.Clone(r.EventIDs)
	out.Guests = clonePtr(r.Guests)
	out.Comments = clonePtr(r.Comments)
	return out
}

// Avatar holds the profile picture URLs.
type Avatar struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
}

func (a *Avatar) UnmarshalJSON(data []byte) error {
	var out Avatar
	err := decodeObject(data,
		required("url", &out.URL),
		required("thumbUrl", &out.ThumbURL),
	)
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// Assignment binds a person to an activity in some capacity.
type Assignment struct {
	ActivityID     uint64         `json:"activityId"`
	AssignmentCode AssignmentCode `json:"assignmentCode"`
	StationNumber  *uint64        `json:"stationNumber"`
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var out Assignment
	err := decodeObject(data,
		required("activityId", &out.ActivityID),
		required("assignmentCode", &out.AssignmentCode),
		optional("stationNumber", &out.StationNumber),
	)
	if err != nil {
		return err
	}
	*a = out
	return nil
}

func (a Assignment) Clone() Assignment {
	out := a
	out.StationNumber = clonePtr(a.StationNumber)
	return out
}

// PersonalBest ranking types.
const (
	PersonalBestSingle  = "single"
	PersonalBestAverage = "average"
)

// PersonalBest is a person's official record in one event.
type PersonalBest struct {
	EventID            string        `json:"eventId"`
	Best               AttemptResult `json:"best"`
	WorldRanking       uint64        `json:"worldRanking"`
	ContinentalRanking uint64        `json:"continentalRanking"`
	NationalRanking    uint64        `json:"nationalRanking"`
	Type               string        `json:"type"`
}

func (pb *PersonalBest) UnmarshalJSON(data []byte) error {
	var out PersonalBest
	err := decodeObject(data,
		required("eventId", &out.EventID),
		required("best", &out.Best),
		required("worldRanking", &out.WorldRanking),
		required("continentalRanking", &out.ContinentalRanking),
		required("nationalRanking", &out.NationalRanking),
		required("type", &out.Type),
	)
	if err != nil {
		return err
	}
	*pb = out
	return nil
}
