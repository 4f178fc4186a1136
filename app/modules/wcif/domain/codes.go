package wcifdomain

import "strings"

// Role is a person's role at a competition. Tokens the service adds after
// this table was written are kept verbatim.
type Role string

const (
	RoleDelegate        Role = "delegate"
	RoleTraineeDelegate Role = "trainee-delegate"
	RoleOrganizer       Role = "organizer"
)

var knownRoles = map[Role]struct{}{
	RoleDelegate:        {},
	RoleTraineeDelegate: {},
	RoleOrganizer:       {},
}

// IsKnown reports whether r is one of the recognized role tokens.
func (r Role) IsKnown() bool {
	_, ok := knownRoles[r]
	return ok
}

// IsDelegate reports whether r is a full or trainee delegate.
func (r Role) IsDelegate() bool {
	return r == RoleDelegate || r == RoleTraineeDelegate
}

func (r Role) String() string { return string(r) }

// AssignmentCode names what a person does during an activity.
type AssignmentCode string

const (
	AssignmentCompetitor     AssignmentCode = "competitor"
	AssignmentStaffJudge     AssignmentCode = "staff-judge"
	AssignmentStaffScrambler AssignmentCode = "staff-scrambler"
	AssignmentStaffRunner    AssignmentCode = "staff-runner"
	AssignmentStaffDataEntry AssignmentCode = "staff-dataentry"
	AssignmentStaffAnnouncer AssignmentCode = "staff-announcer"
)

var knownAssignmentCodes = map[AssignmentCode]struct{}{
	AssignmentCompetitor:     {},
	AssignmentStaffJudge:     {},
	AssignmentStaffScrambler: {},
	AssignmentStaffRunner:    {},
	AssignmentStaffDataEntry: {},
	AssignmentStaffAnnouncer: {},
}

// IsKnown reports whether c is one of the recognized assignment tokens.
func (c AssignmentCode) IsKnown() bool {
	_, ok := knownAssignmentCodes[c]
	return ok
}

// IsStaff reports whether c is a staff assignment, including unrecognized
// staff-* tokens.
func (c AssignmentCode) IsStaff() bool {
	return strings.HasPrefix(string(c), "staff-")
}

func (c AssignmentCode) String() string { return string(c) }
