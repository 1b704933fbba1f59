package policy

import (
	"math/rand/v2"

	"dianti/protocol"
)

// Random picks direction and action independently with probability 1/2 each.
type Random struct {
	rng *rand.Rand
}

// NewRandom uses rng when given, otherwise the runtime's seeded source.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Random{rng: rng}
}

func (r *Random) Name() string { return NameRandom }

func (r *Random) Decide(in Input) ([]protocol.Command, Directions) {
	cmds := make([]protocol.Command, 0, len(in.State.Elevators))
	for _, e := range in.State.Elevators {
		cmds = append(cmds, protocol.Command{
			ElevatorID: e.ID,
			Direction:  r.rng.IntN(2) == 0,
			Action:     r.rng.IntN(2) == 0,
		})
	}
	return cmds, in.Directions
}
