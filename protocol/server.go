package protocol

// Welcome is the registration response: the session token plus the first world state.
type Welcome struct {
	Token     string `json:"token"`
	NumFloors int    `json:"num_floors"`
	State
}

// State is the world snapshot returned after registration and after every step.
type State struct {
	Running   bool       `json:"running"`
	Elevators []Elevator `json:"elevators"`
	Requests  []Request  `json:"requests"`
	Score     *int       `json:"score"`      // absent until the server reports one
	ReplayURL *string    `json:"replay_url"` // only on the final turn
	Errors    []string   `json:"errors"`
	CurTurn   int        `json:"cur_turn,omitempty"`
	NumTurns  int        `json:"num_turns,omitempty"`
}

type Elevator struct {
	ID             string `json:"id"`
	Floor          int    `json:"floor"`
	ButtonsPressed []int  `json:"buttons_pressed"`
}

// Request is a waiting passenger at a floor.
type Request struct {
	Floor     int  `json:"floor"`
	Direction bool `json:"direction"`
}

// HasButton reports whether floor is already a pressed destination in the car.
func (e Elevator) HasButton(floor int) bool {
	for _, f := range e.ButtonsPressed {
		if f == floor {
			return true
		}
	}
	return false
}

// spectator payloads.

type WatchWelcome struct {
	WatcherID string `json:"watcherId"`
}

type Snapshot struct {
	Turn  int   `json:"turn"`
	State State `json:"state"`
}
