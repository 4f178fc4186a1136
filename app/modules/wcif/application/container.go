package wcifservice

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
)

// MaxGroups bounds AddGroupsToEvent. Group ids are parent*1000+g, so they stay
// unique as long as parent ids are distinct.
const MaxGroups = 1000

// Container owns a WCIF document and is its only mutator. It performs no I/O
// and is not safe for concurrent use; iterators must not outlive a mutation.
type Container struct {
	wcif   *wcifdomain.Wcif
	logger *slog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for mutation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// NewContainer takes ownership of w.
func NewContainer(w wcifdomain.Wcif, opts ...Option) *Container {
	c := &Container{wcif: &w}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Wcif returns the owned document. Changes made through it are visible to
// every later query.
func (c *Container) Wcif() *wcifdomain.Wcif {
	return c.wcif
}

// Snapshot returns a deep copy that shares nothing with the container.
func (c *Container) Snapshot() wcifdomain.Wcif {
	return c.wcif.Clone()
}

// Date returns the first day of the competition.
func (c *Container) Date() wcifdomain.Date {
	return c.wcif.Schedule.StartDate
}

func (c *Container) Events() iter.Seq[*wcifdomain.Event] {
	return func(yield func(*wcifdomain.Event) bool) {
		for i := range c.wcif.Events {
			if !yield(&c.wcif.Events[i]) {
				return
			}
		}
	}
}

// Rounds yields every round of every event, in event order.
func (c *Container) Rounds() iter.Seq[*wcifdomain.Round] {
	return func(yield func(*wcifdomain.Round) bool) {
		for e := range c.Events() {
			for i := range e.Rounds {
				if !yield(&e.Rounds[i]) {
					return
				}
			}
		}
	}
}

func (c *Container) Persons() iter.Seq[*wcifdomain.Person] {
	return func(yield func(*wcifdomain.Person) bool) {
		for i := range c.wcif.Persons {
			if !yield(&c.wcif.Persons[i]) {
				return
			}
		}
	}
}

// Rooms yields every room of every venue.
func (c *Container) Rooms() iter.Seq[*wcifdomain.Room] {
	return func(yield func(*wcifdomain.Room) bool) {
		venues := c.wcif.Schedule.Venues
		for i := range venues {
			for j := range venues[i].Rooms {
				if !yield(&venues[i].Rooms[j]) {
					return
				}
			}
		}
	}
}

// Activities yields every activity reachable from any room, nested children
// included, parent before children. The walk keeps its own stack of sibling
// slices so its depth does not grow the goroutine stack.
func (c *Container) Activities() iter.Seq[*wcifdomain.Activity] {
	return func(yield func(*wcifdomain.Activity) bool) {
		for room := range c.Rooms() {
			stack := [][]wcifdomain.Activity{room.Activities}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(top) == 0 {
					stack = stack[:len(stack)-1]
					continue
				}
				a := &top[0]
				stack[len(stack)-1] = top[1:]
				if !yield(a) {
					return
				}
				if len(a.ChildActivities) > 0 {
					stack = append(stack, a.ChildActivities)
				}
			}
		}
	}
}

// ScheduleActivities yields the top-level activities of every room.
func (c *Container) ScheduleActivities() iter.Seq[*wcifdomain.Activity] {
	return func(yield func(*wcifdomain.Activity) bool) {
		for room := range c.Rooms() {
			for i := range room.Activities {
				if !yield(&room.Activities[i]) {
					return
				}
			}
		}
	}
}

// DelegateRegistrantIDs returns the registrant ids of delegates and trainee
// delegates. Persons without a registrant id are skipped.
func (c *Container) DelegateRegistrantIDs() []uint64 {
	var ids []uint64
	for p := range c.Persons() {
		if p.RegistrantID != nil && p.IsDelegate() {
			ids = append(ids, *p.RegistrantID)
		}
	}
	return ids
}

// ActivityPair is an ordered pair of activities.
type ActivityPair struct {
	First  *wcifdomain.Activity
	Second *wcifdomain.Activity
}

// OverlappingActivities scans every ordered pair of top-level activities and
// returns those that overlap. Both (a, b) and (b, a) are reported.
func (c *Container) OverlappingActivities() []ActivityPair {
	top := slices.Collect(c.ScheduleActivities())
	var pairs []ActivityPair
	for _, a := range top {
		for _, b := range top {
			if a.Overlaps(b) {
				pairs = append(pairs, ActivityPair{First: a, Second: b})
			}
		}
	}
	return pairs
}

// AddGroupsToEvent splits the top-level activity of the given event round
// into n equal groups and returns the new child activities. The activity must
// have no children yet.
func (c *Container) AddGroupsToEvent(eventID string, round, n int) ([]wcifdomain.Activity, error) {
	if n < 1 || n > MaxGroups {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidGroupCount, n, MaxGroups)
	}

	parent := c.roundActivity(eventID, round)
	if parent == nil {
		return nil, fmt.Errorf("%w: no activity for round %s", ErrNotFound, wcifdomain.RoundID(eventID, round))
	}
	if len(parent.ChildActivities) > 0 {
		return nil, fmt.Errorf("%w: activity %d has %d children", ErrGroupsExist, parent.ID, len(parent.ChildActivities))
	}

	slot := parent.Duration() / time.Duration(n)
	code := parent.Code()
	children := make([]wcifdomain.Activity, n)
	for g := range n {
		children[g] = wcifdomain.Activity{
			ID:              parent.ID*1000 + uint64(g),
			Name:            fmt.Sprintf("%s, Group %d", parent.Name, g+1),
			ActivityCode:    code.WithGroup(g + 1),
			StartTime:       parent.StartTime.Add(time.Duration(g) * slot),
			EndTime:         parent.StartTime.Add(time.Duration(g+1) * slot),
			ChildActivities: []wcifdomain.Activity{},
			Extensions:      []wcifdomain.Extension{},
		}
	}
	parent.ChildActivities = children

	c.logger.Debug("Added groups to round activity",
		"activity_id", parent.ID,
		"activity_code", parent.ActivityCode,
		"groups", n,
		"slot", slot,
	)
	return parent.ChildActivities, nil
}

// ClearGroups removes the child activities of every top-level activity of the
// given event round and returns how many activities were cleared.
func (c *Container) ClearGroups(eventID string, round int) (int, error) {
	cleared := 0
	found := false
	for a := range c.ScheduleActivities() {
		if !a.Code().Matches(eventID, round) {
			continue
		}
		found = true
		if len(a.ChildActivities) > 0 {
			a.ChildActivities = []wcifdomain.Activity{}
			cleared++
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no activity for round %s", ErrNotFound, wcifdomain.RoundID(eventID, round))
	}
	return cleared, nil
}

// roundActivity returns the first top-level activity of the event round.
func (c *Container) roundActivity(eventID string, round int) *wcifdomain.Activity {
	for a := range c.ScheduleActivities() {
		if a.Code().Matches(eventID, round) {
			return a
		}
	}
	return nil
}

func (c *Container) PatchEvents(fn func(*wcifdomain.Event)) {
	for e := range c.Events() {
		fn(e)
	}
}

func (c *Container) PatchPersons(fn func(*wcifdomain.Person)) {
	for p := range c.Persons() {
		fn(p)
	}
}

func (c *Container) PatchRounds(fn func(*wcifdomain.Round)) {
	for r := range c.Rounds() {
		fn(r)
	}
}
