package policy

import (
	"math/rand/v2"

	"dianti/protocol"
)

const (
	NameRandom = "random"
	NameUpDown = "updown"
)

// Directions remembers the travel direction of each elevator between turns.
type Directions map[string]bool

// Input is everything a policy may look at for one turn.
type Input struct {
	State      protocol.State
	NumFloors  int
	Directions Directions
}

// Policy maps a world state to one command per elevator. Memory goes in via
// Input.Directions and comes back out as the second result; the input map is
// never modified.
type Policy interface {
	Name() string
	Decide(in Input) ([]protocol.Command, Directions)
}

// ByName returns the sweep policy for "updown" and the random policy for anything else.
func ByName(name string, rng *rand.Rand) Policy {
	if name == NameUpDown {
		return Sweep{}
	}
	return NewRandom(rng)
}
