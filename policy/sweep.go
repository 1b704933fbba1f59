package policy

import (
	"maps"

	"dianti/protocol"
)

// Sweep runs every elevator end to end, reversing at the top floor and at
// floor 1, and stops wherever a rider wants out or a passenger waits to go
// the same way.
type Sweep struct{}

func (Sweep) Name() string { return NameUpDown }

func (Sweep) Decide(in Input) ([]protocol.Command, Directions) {
	next := make(Directions, len(in.State.Elevators))
	maps.Copy(next, in.Directions)

	cmds := make([]protocol.Command, 0, len(in.State.Elevators))
	for _, e := range in.State.Elevators {
		dir, seen := next[e.ID]
		if !seen {
			dir = protocol.Up
		}
		dir = turnAround(dir, e.Floor, in.NumFloors)
		next[e.ID] = dir

		cmds = append(cmds, protocol.Command{
			ElevatorID: e.ID,
			Direction:  dir,
			Action:     action(e, dir, in.State.Requests),
		})
	}
	return cmds, next
}

func turnAround(dir bool, floor, numFloors int) bool {
	switch {
	case dir == protocol.Up && floor == numFloors:
		return protocol.Down
	case dir == protocol.Down && floor == protocol.BottomFloor:
		return protocol.Up
	}
	return dir
}

func action(e protocol.Elevator, dir bool, requests []protocol.Request) bool {
	if e.HasButton(e.Floor) {
		return protocol.Stop
	}
	for _, r := range requests {
		if r.Floor == e.Floor && r.Direction == dir {
			return protocol.Stop
		}
	}
	return protocol.Move
}
