package orders

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusShipped   Status = "Shipped"
)

// Checkout never advances status itself; Pending orders are finalized by
// the back office through the admin surface.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusCompleted: true, StatusShipped: true},
	StatusCompleted: {},
	StatusShipped:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}
