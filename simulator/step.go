package simulator

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"dianti/protocol"
)

// NewState lays out a fresh run: elevators parked on floor 1 and the whole
// passenger schedule drawn up front from seed, so a seed replays exactly.
func NewState(token string, b Building, seed uint64) *State {
	rng := rand.New(rand.NewPCG(seed, uint64(b.Floors)))

	s := &State{
		Token:     token,
		Building:  b,
		Running:   true,
		Errors:    []string{},
		Elevators: make([]*Elevator, 0, b.Elevators),
		Upcoming:  make([]*Passenger, 0, b.Requests),
	}
	for i := 0; i < b.Elevators; i++ {
		s.Elevators = append(s.Elevators, &Elevator{ID: fmt.Sprintf("elevator-%d", i), Floor: protocol.BottomFloor})
	}
	for i := 0; i < b.Requests; i++ {
		origin := 1 + rng.IntN(b.Floors)
		dest := 1 + rng.IntN(b.Floors-1)
		if dest >= origin {
			dest++
		}
		s.Upcoming = append(s.Upcoming, &Passenger{Origin: origin, Dest: dest, Arrive: arrivalTurn(rng, b)})
	}
	sort.SliceStable(s.Upcoming, func(i, j int) bool { return s.Upcoming[i].Arrive < s.Upcoming[j].Arrive })

	s.admit()
	return s
}

func arrivalTurn(rng *rand.Rand, b Building) int {
	if !b.Clustered {
		return rng.IntN(b.Turns)
	}
	rush := rng.IntN(RushHours)
	center := (2*rush + 1) * b.Turns / (2 * RushHours)
	spread := max(1, b.Turns/RushSpreadDiv)
	t := center + rng.IntN(2*spread+1) - spread
	return min(max(t, 0), b.Turns-1)
}

// Step advances the run by one turn. Each elevator with a command either
// moves one floor or stops to let riders off and matching passengers on.
func Step(s *State, cmds []protocol.Command) {
	if !s.Running {
		s.Errors = []string{"Simulation is not running"}
		return
	}
	s.Turn++
	s.Errors = []string{}

	byID := make(map[string]protocol.Command, len(cmds))
	for _, c := range cmds {
		if s.elevator(c.ElevatorID) == nil {
			s.Errors = append(s.Errors, "Unknown elevator ID: "+c.ElevatorID)
			continue
		}
		if _, dup := byID[c.ElevatorID]; dup {
			s.Errors = append(s.Errors, "Duplicate command for elevator ID: "+c.ElevatorID)
			continue
		}
		byID[c.ElevatorID] = c
	}

	for _, e := range s.Elevators {
		c, ok := byID[e.ID]
		if !ok {
			continue
		}
		if c.Action == protocol.Move {
			s.move(e, c.Direction)
		} else {
			s.stop(e, c.Direction)
		}
	}

	s.admit()
	if s.Turn >= s.Building.Turns {
		s.finish()
	}
}

func (s *State) elevator(id string) *Elevator {
	for _, e := range s.Elevators {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *State) move(e *Elevator, up bool) {
	next := e.Floor - 1
	if up {
		next = e.Floor + 1
	}
	if next < protocol.BottomFloor || next > s.Building.Floors {
		return
	}
	e.Floor = next
	s.Score -= MoveCost
}

func (s *State) stop(e *Elevator, up bool) {
	riders := e.Riders[:0]
	for _, p := range e.Riders {
		if p.Dest == e.Floor {
			s.Score += DeliverReward - WaitCostPerTurn*p.waited(s.Turn)
			s.Delivered++
			continue
		}
		riders = append(riders, p)
	}
	e.Riders = riders

	waiting := s.Waiting[:0]
	for _, p := range s.Waiting {
		if p.Origin == e.Floor && p.Up() == up {
			e.Riders = append(e.Riders, p)
			continue
		}
		waiting = append(waiting, p)
	}
	s.Waiting = waiting
}

func (s *State) admit() {
	n := 0
	for n < len(s.Upcoming) && s.Upcoming[n].Arrive <= s.Turn {
		n++
	}
	s.Waiting = append(s.Waiting, s.Upcoming[:n]...)
	s.Upcoming = s.Upcoming[n:]
}

func (s *State) finish() {
	s.Running = false
	for _, p := range s.Waiting {
		s.Score += UndeliveredPenalty - WaitCostPerTurn*p.waited(s.Turn)
	}
	for _, e := range s.Elevators {
		for _, p := range e.Riders {
			s.Score += UndeliveredPenalty - WaitCostPerTurn*p.waited(s.Turn)
		}
	}
}

// Snapshot is the client-facing view of the run. Errors is shared with s.
func (s *State) Snapshot() protocol.State {
	score := s.Score
	snapshot := protocol.State{
		Running:   s.Running,
		Elevators: make([]protocol.Elevator, 0, len(s.Elevators)),
		Requests:  make([]protocol.Request, 0, len(s.Waiting)),
		Score:     &score,
		Errors:    s.Errors,
		CurTurn:   s.Turn,
		NumTurns:  s.Building.Turns,
	}
	if s.ReplayURL != "" {
		u := s.ReplayURL
		snapshot.ReplayURL = &u
	}

	for _, e := range s.Elevators {
		buttons := make([]int, 0, len(e.Riders))
		for _, p := range e.Riders {
			buttons = append(buttons, p.Dest)
		}
		slices.Sort(buttons)
		snapshot.Elevators = append(snapshot.Elevators, protocol.Elevator{
			ID:             e.ID,
			Floor:          e.Floor,
			ButtonsPressed: slices.Compact(buttons),
		})
	}

	seen := make(map[protocol.Request]bool)
	for _, p := range s.Waiting {
		r := protocol.Request{Floor: p.Origin, Direction: p.Up()}
		if seen[r] {
			continue
		}
		seen[r] = true
		snapshot.Requests = append(snapshot.Requests, r)
	}
	sort.Slice(snapshot.Requests, func(i, j int) bool {
		a, b := snapshot.Requests[i], snapshot.Requests[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		return !a.Direction && b.Direction
	})
	return snapshot
}
