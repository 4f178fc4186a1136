package wcifservice

import (
	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
)

func (c *Container) EventByID(id string) (*wcifdomain.Event, bool) {
	for e := range c.Events() {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// RoundByID looks up a round by its "<event>-r<n>" id.
func (c *Container) RoundByID(id string) (*wcifdomain.Round, bool) {
	for r := range c.Rounds() {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// ActivityByID searches the whole activity tree.
func (c *Container) ActivityByID(id uint64) (*wcifdomain.Activity, bool) {
	for a := range c.Activities() {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

func (c *Container) PersonByRegistrantID(id uint64) (*wcifdomain.Person, bool) {
	for p := range c.Persons() {
		if p.RegistrantID != nil && *p.RegistrantID == id {
			return p, true
		}
	}
	return nil, false
}

func (c *Container) PersonsWithRole(role wcifdomain.Role) []*wcifdomain.Person {
	var out []*wcifdomain.Person
	for p := range c.Persons() {
		if p.HasRole(role) {
			out = append(out, p)
		}
	}
	return out
}

// RoundActivities returns every top-level activity of the event round, across
// all rooms.
func (c *Container) RoundActivities(eventID string, round int) []*wcifdomain.Activity {
	var out []*wcifdomain.Activity
	for a := range c.ScheduleActivities() {
		if a.Code().Matches(eventID, round) {
			out = append(out, a)
		}
	}
	return out
}

// PersonAssignment pairs a person with one of their assignments.
type PersonAssignment struct {
	Person     *wcifdomain.Person
	Assignment wcifdomain.Assignment
}

// AssignmentsForActivity returns every assignment to the activity, in person
// order.
func (c *Container) AssignmentsForActivity(activityID uint64) []PersonAssignment {
	var out []PersonAssignment
	for p := range c.Persons() {
		for _, as := range p.Assignments {
			if as.ActivityID == activityID {
				out = append(out, PersonAssignment{Person: p, Assignment: as})
			}
		}
	}
	return out
}
