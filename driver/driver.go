package driver

import (
	"fmt"

	"dianti/logger"
	"dianti/policy"
	"dianti/protocol"
)

// Stepper submits one turn of commands. *client.Session satisfies it.
type Stepper interface {
	Step(cmds []protocol.Command) (protocol.State, error)
}

// Observer sees the initial state (turn 0) and every state after a step.
type Observer interface {
	Observe(turn int, st protocol.State)
}

type Result struct {
	Score     *int
	ReplayURL *string
	Turns     int
}

func (r Result) String() string {
	score, replay := "none", "none"
	if r.Score != nil {
		score = fmt.Sprint(*r.Score)
	}
	if r.ReplayURL != nil {
		replay = *r.ReplayURL
	}
	return fmt.Sprintf("Score: %s\nReplay URL: %s", score, replay)
}

type Driver struct {
	Session   Stepper
	Policy    policy.Policy
	NumFloors int
	Observer  Observer // optional
}

// Run loops decide/step until the world reports it is no longer running.
// The first error from Step ends the run.
func (d *Driver) Run(initial protocol.State) (Result, error) {
	log := logger.GetLogger()
	st := initial
	dirs := policy.Directions{}
	seen := make(map[string]bool)
	turns := 0

	d.observe(turns, st)
	for st.Running {
		for _, e := range st.Elevators {
			if !seen[e.ID] {
				if turns > 0 {
					log.Debug().Str("elevator", e.ID).Int("turn", turns).Msg("elevator appeared mid-run")
				}
				seen[e.ID] = true
			}
		}

		var cmds []protocol.Command
		cmds, dirs = d.Policy.Decide(policy.Input{State: st, NumFloors: d.NumFloors, Directions: dirs})

		next, err := d.Session.Step(cmds)
		if err != nil {
			return Result{Turns: turns}, fmt.Errorf("turn %d: %w", turns+1, err)
		}
		turns++
		st = next
		d.observe(turns, st)
	}

	log.Info().Str("policy", d.Policy.Name()).Int("turns", turns).Msg("simulation finished")
	return Result{Score: st.Score, ReplayURL: st.ReplayURL, Turns: turns}, nil
}

func (d *Driver) observe(turn int, st protocol.State) {
	if d.Observer != nil {
		d.Observer.Observe(turn, st)
	}
}
