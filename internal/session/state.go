package session

type State int

const (
	Idle State = iota
	Mutating
	CheckingOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Mutating:
		return "mutating"
	case CheckingOut:
		return "checking_out"
	default:
		return "unknown"
	}
}
