package wcifservice

import (
	"testing"

	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, s string) wcifdomain.Timestamp {
	t.Helper()
	out, err := wcifdomain.ParseTimestamp(s)
	require.NoError(t, err)
	return out
}

func newActivity(t *testing.T, id uint64, name, code, start, end string, children ...wcifdomain.Activity) wcifdomain.Activity {
	t.Helper()
	if children == nil {
		children = []wcifdomain.Activity{}
	}
	return wcifdomain.Activity{
		ID:              id,
		Name:            name,
		ActivityCode:    code,
		StartTime:       ts(t, start),
		EndTime:         ts(t, end),
		ChildActivities: children,
		Extensions:      []wcifdomain.Extension{},
	}
}

func newPerson(id uint64, name string, roles ...wcifdomain.Role) wcifdomain.Person {
	if roles == nil {
		roles = []wcifdomain.Role{}
	}
	return wcifdomain.Person{
		RegistrantID:  &id,
		Name:          name,
		WcaUserID:     id + 100,
		CountryIso2:   "US",
		Gender:        "o",
		Roles:         roles,
		Assignments:   []wcifdomain.Assignment{},
		PersonalBests: []wcifdomain.PersonalBest{},
		Extensions:    []wcifdomain.Extension{},
	}
}

func newRound(id string) wcifdomain.Round {
	return wcifdomain.Round{
		ID:               id,
		Format:           wcifdomain.FormatAverage,
		Results:          []wcifdomain.Result{},
		ScrambleSetCount: 1,
		Extensions:       []wcifdomain.Extension{},
	}
}

// fixtureWcif has two rooms. Main room: 333-r1 10:00-11:00 and 222-r1
// 10:30-11:30 (overlapping), pyram-r1 11:30-12:00 with two groups. Side room:
// other-lunch 12:00-13:00.
func fixtureWcif(t *testing.T) wcifdomain.Wcif {
	t.Helper()

	pyramGroups := []wcifdomain.Activity{
		newActivity(t, 3000, "Pyraminx, Round 1, Group 1", "pyram-r1-g1", "2020-06-12T11:30:00Z", "2020-06-12T11:45:00Z"),
		newActivity(t, 3001, "Pyraminx, Round 1, Group 2", "pyram-r1-g2", "2020-06-12T11:45:00Z", "2020-06-12T12:00:00Z"),
	}

	delegate := newPerson(1, "Dana Delegate", wcifdomain.RoleDelegate)
	trainee := newPerson(2, "Tam Trainee", wcifdomain.RoleTraineeDelegate, wcifdomain.RoleOrganizer)
	competitor := newPerson(3, "Casey Competitor")
	competitor.Assignments = []wcifdomain.Assignment{
		{ActivityID: 1, AssignmentCode: wcifdomain.AssignmentCompetitor},
		{ActivityID: 3000, AssignmentCode: wcifdomain.AssignmentStaffJudge},
	}
	organizer := newPerson(4, "Oak Organizer", wcifdomain.RoleOrganizer)
	organizer.Assignments = []wcifdomain.Assignment{
		{ActivityID: 1, AssignmentCode: wcifdomain.AssignmentStaffScrambler},
	}
	unregistered := newPerson(0, "No Registrant", wcifdomain.RoleDelegate)
	unregistered.RegistrantID = nil

	return wcifdomain.Wcif{
		FormatVersion: "1.0",
		ID:            "Example2020",
		Name:          "Example Open 2020",
		ShortName:     "Example 2020",
		Persons:       []wcifdomain.Person{delegate, trainee, competitor, organizer, unregistered},
		Events: []wcifdomain.Event{
			{ID: "333", Rounds: []wcifdomain.Round{newRound("333-r1"), newRound("333-r2")}, Extensions: []wcifdomain.Extension{}},
			{ID: "222", Rounds: []wcifdomain.Round{newRound("222-r1")}, Extensions: []wcifdomain.Extension{}},
			{ID: "pyram", Rounds: []wcifdomain.Round{newRound("pyram-r1")}, Extensions: []wcifdomain.Extension{}},
		},
		Schedule: wcifdomain.Schedule{
			StartDate:    wcifdomain.NewDate(2020, 6, 12),
			NumberOfDays: 1,
			Venues: []wcifdomain.Venue{{
				ID:          1,
				Name:        "Hall",
				CountryIso2: "US",
				Timezone:    "America/New_York",
				Rooms: []wcifdomain.Room{
					{
						ID:    1,
						Name:  "Main",
						Color: "#304a96",
						Activities: []wcifdomain.Activity{
							newActivity(t, 1, "3x3x3 Cube, Round 1", "333-r1", "2020-06-12T10:00:00Z", "2020-06-12T11:00:00Z"),
							newActivity(t, 2, "2x2x2 Cube, Round 1", "222-r1", "2020-06-12T10:30:00Z", "2020-06-12T11:30:00Z"),
							newActivity(t, 3, "Pyraminx, Round 1", "pyram-r1", "2020-06-12T11:30:00Z", "2020-06-12T12:00:00Z", pyramGroups...),
						},
						Extensions: []wcifdomain.Extension{},
					},
					{
						ID:    2,
						Name:  "Side",
						Color: "#ff0000",
						Activities: []wcifdomain.Activity{
							newActivity(t, 4, "Lunch", "other-lunch", "2020-06-12T12:00:00Z", "2020-06-12T13:00:00Z"),
						},
						Extensions: []wcifdomain.Extension{},
					},
				},
				Extensions: []wcifdomain.Extension{},
			}},
		},
		Extensions: []wcifdomain.Extension{},
	}
}
