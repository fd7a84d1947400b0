package project

// Status is where a user stands with respect to one project.
type Status int

const (
	StatusNotInvolved Status = iota
	StatusPending
	StatusMember
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusMember:
		return "member"
	default:
		return "not_involved"
	}
}
