package simulator

// Internal truth authoritative simulation state

type State struct {
	Token     string
	Building  Building
	Bot       string
	Email     string
	Event     string
	Sandbox   bool
	Turn      int
	Running   bool
	Score     int
	ReplayURL string
	Errors    []string
	Elevators []*Elevator
	Waiting   []*Passenger
	Upcoming  []*Passenger // sorted by Arrive
	Delivered int
}

type Elevator struct {
	ID     string
	Floor  int
	Riders []*Passenger
}

type Passenger struct {
	Origin int
	Dest   int
	Arrive int // turn the passenger starts waiting
}

// Up reports the direction the passenger wants to travel.
func (p *Passenger) Up() bool {
	return p.Dest > p.Origin
}

func (p *Passenger) waited(turn int) int {
	return turn - p.Arrive
}
