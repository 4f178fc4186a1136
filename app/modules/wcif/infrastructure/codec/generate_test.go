package wcifcodec

import (
	"fmt"
	"strings"
	"time"

	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
	"github.com/brianvoe/gofakeit/v7"
)

var generatedEventIDs = []string{"333", "222", "444", "pyram", "skewb", "clock", "minx", "sq1"}

// generateWcif builds a valid document from a seed. Every optional field is
// randomly present or absent so the round trip covers both encodings.
func generateWcif(seed uint64) wcifdomain.Wcif {
	f := gofakeit.New(seed)
	start := time.Date(2018+f.Number(0, 6), time.Month(f.Number(1, 12)), f.Number(1, 28), 0, 0, 0, 0, time.UTC)

	w := wcifdomain.Wcif{
		FormatVersion: "1.0",
		ID:            fmt.Sprintf("%sOpen%d", strings.ReplaceAll(f.City(), " ", ""), start.Year()),
		Name:          f.City() + " Open",
		ShortName:     f.City(),
		Schedule: wcifdomain.Schedule{
			StartDate:    wcifdomain.NewDate(start.Year(), start.Month(), start.Day()),
			NumberOfDays: uint64(f.Number(1, 3)),
		},
	}
	if f.Bool() {
		w.CompetitorLimit = ptr(uint64(f.Number(20, 500)))
	}
	if f.Bool() {
		w.Extensions = []wcifdomain.Extension{generateExtension(f)}
	}

	events := f.Number(1, len(generatedEventIDs))
	for i := range events {
		w.Events = append(w.Events, generateEvent(f, generatedEventIDs[i]))
	}

	for i := range f.Number(0, 6) {
		w.Persons = append(w.Persons, generatePerson(f, uint64(i+1)))
	}

	activityID := uint64(1)
	for v := range f.Number(1, 2) {
		venue := wcifdomain.Venue{
			ID:                    uint64(v + 1),
			Name:                  f.Company(),
			LatitudeMicrodegrees:  int64(f.Number(-90_000_000, 90_000_000)),
			LongitudeMicrodegrees: int64(f.Number(-180_000_000, 180_000_000)),
			CountryIso2:           f.CountryAbr(),
			Timezone:              f.RandomString([]string{"UTC", "Europe/Berlin", "America/New_York", "Asia/Tokyo"}),
		}
		for r := range f.Number(1, 3) {
			room := wcifdomain.Room{
				ID:    uint64(v*10 + r + 1),
				Name:  f.Word(),
				Color: f.HexColor(),
			}
			cursor := start.Add(9 * time.Hour)
			for _, e := range w.Events {
				length := time.Duration(f.Number(2, 8)) * 15 * time.Minute
				a := wcifdomain.Activity{
					ID:           activityID,
					Name:         e.ID + " round 1",
					ActivityCode: wcifdomain.RoundID(e.ID, 1),
					StartTime:    wcifdomain.NewTimestamp(cursor),
					EndTime:      wcifdomain.NewTimestamp(cursor.Add(length)),
				}
				activityID++
				if f.Bool() {
					a.ScrambleSetID = ptr(uint64(f.Number(1, 50)))
				}
				groups := f.Number(0, 3)
				for g := range groups {
					slot := length / time.Duration(groups)
					a.ChildActivities = append(a.ChildActivities, wcifdomain.Activity{
						ID:           a.ID*1000 + uint64(g),
						Name:         fmt.Sprintf("%s, Group %d", a.Name, g+1),
						ActivityCode: a.Code().WithGroup(g + 1),
						StartTime:    a.StartTime.Add(time.Duration(g) * slot),
						EndTime:      a.StartTime.Add(time.Duration(g+1) * slot),
					})
				}
				room.Activities = append(room.Activities, a)
				cursor = cursor.Add(length)
			}
			venue.Rooms = append(venue.Rooms, room)
		}
		w.Schedule.Venues = append(w.Schedule.Venues, venue)
	}

	return w
}

func generateEvent(f *gofakeit.Faker, id string) wcifdomain.Event {
	e := wcifdomain.Event{ID: id}
	if f.Bool() {
		e.CompetitorLimit = ptr(uint64(f.Number(10, 200)))
	}
	if f.Bool() {
		e.Qualification = wcifdomain.Payload(fmt.Sprintf(`{"type":"ranking","resultType":"single","level":%d}`, f.Number(1, 500)))
	}

	rounds := f.Number(1, 3)
	for n := range rounds {
		r := wcifdomain.Round{
			ID:               wcifdomain.RoundID(id, n+1),
			Format:           wcifdomain.RoundFormat(f.RandomString([]string{"1", "2", "3", "a", "m"})[0]),
			ScrambleSetCount: uint64(f.Number(1, 4)),
		}
		if f.Bool() {
			r.TimeLimit = &wcifdomain.TimeLimit{Centiseconds: uint64(f.Number(1000, 60000))}
		}
		if f.Bool() {
			r.Cutoff = &wcifdomain.Cutoff{NumberOfAttempts: uint64(f.Number(1, 3)), AttemptResult: wcifdomain.Ok(uint64(f.Number(500, 12000)))}
		}
		if n+1 < rounds {
			cond := f.RandomString([]string{"percent", "ranking", "attemptResult"})
			switch cond {
			case "percent":
				r.AdvancementCondition = ptr(wcifdomain.PercentAdvancement(uint64(f.Number(1, 75))))
			case "ranking":
				r.AdvancementCondition = ptr(wcifdomain.RankingAdvancement(uint64(f.Number(4, 100))))
			default:
				r.AdvancementCondition = ptr(wcifdomain.AttemptResultAdvancement(uint64(f.Number(500, 6000))))
			}
		}
		for p := range f.Number(0, 4) {
			r.Results = append(r.Results, generateResult(f, uint64(p+1), r.Format.Attempts()))
		}
		e.Rounds = append(e.Rounds, r)
	}
	return e
}

func generateResult(f *gofakeit.Faker, personID uint64, attempts int) wcifdomain.Result {
	res := wcifdomain.Result{PersonID: personID, Best: generateAttemptResult(f), Average: generateAttemptResult(f)}
	if f.Bool() {
		res.Ranking = ptr(personID)
	}
	for range attempts {
		a := wcifdomain.Attempt{Result: generateAttemptResult(f)}
		if f.Bool() {
			a.Reconstruction = ptr(f.RandomString([]string{"R U R' U'", "F2 L D", "x y2 z'"}))
		}
		res.Attempts = append(res.Attempts, a)
	}
	return res
}

func generateAttemptResult(f *gofakeit.Faker) wcifdomain.AttemptResult {
	switch f.Number(0, 5) {
	case 0:
		return wcifdomain.DNF
	case 1:
		return wcifdomain.DNS
	case 2:
		return wcifdomain.Skip
	default:
		return wcifdomain.Ok(uint64(f.Number(1, 1_000_000)))
	}
}

func generatePerson(f *gofakeit.Faker, registrantID uint64) wcifdomain.Person {
	p := wcifdomain.Person{
		Name:        f.Name(),
		WcaUserID:   uint64(f.Number(1, 500_000)),
		CountryIso2: f.CountryAbr(),
		Gender:      f.RandomString([]string{"m", "f", "o"}),
	}
	if f.Bool() {
		p.RegistrantID = ptr(registrantID)
	}
	if f.Bool() {
		var letters [4]byte
		copy(letters[:], strings.ToUpper(f.LetterN(4)))
		p.WcaID = &wcifdomain.WCAID{Year: uint16(f.Number(2003, 2024)), Letters: letters, Number: uint8(f.Number(1, 99))}
	}
	if f.Bool() {
		d := f.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
		p.Birthdate = ptr(wcifdomain.NewDate(d.Year(), d.Month(), d.Day()))
	}
	if f.Bool() {
		p.Email = ptr(f.Email())
	}
	if f.Bool() {
		p.Avatar = &wcifdomain.Avatar{URL: f.URL(), ThumbURL: f.URL()}
	}
	if f.Bool() {
		p.Roles = append(p.Roles, wcifdomain.RoleDelegate)
	}
	if f.Bool() {
		p.Roles = append(p.Roles, wcifdomain.Role(f.RandomString([]string{"organizer", "trainee-delegate", "staff-dataentry"})))
	}
	if f.Bool() {
		reg := &wcifdomain.Registration{
			WcaRegistrationID: uint64(f.Number(1, 100_000)),
			EventIDs:          []string{"333"},
			Status:            f.RandomString([]string{wcifdomain.RegistrationAccepted, wcifdomain.RegistrationPending, wcifdomain.RegistrationDeleted}),
			IsCompeting:       f.Bool(),
		}
		if f.Bool() {
			reg.Guests = ptr(uint64(f.Number(0, 3)))
		}
		if f.Bool() {
			reg.Comments = ptr(f.Word())
		}
		p.Registration = reg
	}
	for range f.Number(0, 3) {
		as := wcifdomain.Assignment{
			ActivityID:     uint64(f.Number(1, 20)),
			AssignmentCode: wcifdomain.AssignmentCode(f.RandomString([]string{"competitor", "staff-judge", "staff-scrambler", "staff-runner"})),
		}
		if f.Bool() {
			as.StationNumber = ptr(uint64(f.Number(1, 16)))
		}
		p.Assignments = append(p.Assignments, as)
	}
	for range f.Number(0, 2) {
		p.PersonalBests = append(p.PersonalBests, wcifdomain.PersonalBest{
			EventID:            f.RandomString(generatedEventIDs),
			Best:               wcifdomain.Ok(uint64(f.Number(100, 100_000))),
			WorldRanking:       uint64(f.Number(1, 200_000)),
			ContinentalRanking: uint64(f.Number(1, 50_000)),
			NationalRanking:    uint64(f.Number(1, 10_000)),
			Type:               f.RandomString([]string{wcifdomain.PersonalBestSingle, wcifdomain.PersonalBestAverage}),
		})
	}
	if f.Bool() {
		p.Extensions = []wcifdomain.Extension{generateExtension(f)}
	}
	return p
}

func generateExtension(f *gofakeit.Faker) wcifdomain.Extension {
	ext, err := wcifdomain.NewExtension("gen."+f.Word(), "https://example.com/"+f.Word(), map[string]any{"n": f.Number(0, 1000), "tag": f.Word()})
	if err != nil {
		panic(err)
	}
	return ext
}

func ptr[T any](v T) *T {
	return &v
}
