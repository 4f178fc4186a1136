package wcifdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// ActivityCode is the structured form of an activity code such as
// 333-r1-g2-a1. Codes that do not describe a round (other-lunch,
// other-registration) keep only Raw.
type ActivityCode struct {
	Raw     string
	EventID string
	Round   int
	Group   int
	Attempt int
}

// ParseActivityCode never fails: anything that is not <event>-r<n>[-g<n>][-a<n>]
// is returned as a non-round code.
func ParseActivityCode(s string) ActivityCode {
	code := ActivityCode{Raw: s}
	parts := strings.Split(s, "-")
	if len(parts) < 2 || parts[0] == "" || parts[0] == "other" {
		return code
	}

	var round, group, attempt int
	for _, p := range parts[1:] {
		if len(p) < 2 {
			return code
		}
		n, err := strconv.Atoi(p[1:])
		if err != nil || n <= 0 {
			return code
		}
		switch p[0] {
		case 'r':
			if round != 0 || group != 0 || attempt != 0 {
				return code
			}
			round = n
		case 'g':
			if round == 0 || group != 0 || attempt != 0 {
				return code
			}
			group = n
		case 'a':
			if round == 0 || attempt != 0 {
				return code
			}
			attempt = n
		default:
			return code
		}
	}
	if round == 0 {
		return code
	}

	code.EventID = parts[0]
	code.Round = round
	code.Group = group
	code.Attempt = attempt
	return code
}

// IsRound reports whether the code names an event round (or part of one).
func (c ActivityCode) IsRound() bool {
	return c.Round > 0
}

// Matches reports whether the code belongs to the given event round.
func (c ActivityCode) Matches(eventID string, round int) bool {
	return c.IsRound() && c.EventID == eventID && c.Round == round
}

// WithGroup returns the code of group n within this activity.
func (c ActivityCode) WithGroup(n int) string {
	return fmt.Sprintf("%s-g%d", c.Raw, n)
}

func (c ActivityCode) String() string {
	return c.Raw
}

// RoundID formats the conventional round identifier <event>-r<n>.
func RoundID(eventID string, round int) string {
	return fmt.Sprintf("%s-r%d", eventID, round)
}
