package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCancelled: true, StatusCompleted: true},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal statuses never move again.
func (s Status) Terminal() bool { return len(validNext[s]) == 0 && s.Valid() }

// CanTransition reports whether from -> to is allowed. Staying put is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.Valid()
	}
	return validNext[from][to]
}

// AllStatuses in display order.
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
