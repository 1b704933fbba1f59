package protocol

// request bodies sent by the bot to the simulation API.

// Registration starts a new simulation run.
type Registration struct {
	Bot          string `json:"bot"`
	BuildingName string `json:"building_name"`
	Email        string `json:"email"`
	Event        string `json:"event"`
	Sandbox      bool   `json:"sandbox"` // practice run, not scored
}

// StepRequest submits one turn worth of commands.
type StepRequest struct {
	Token    string    `json:"token"`
	Commands []Command `json:"commands"`
}

type Command struct {
	ElevatorID string `json:"elevator_id"`
	Direction  bool   `json:"direction"` // Up / Down
	Action     bool   `json:"action"`    // Move / Stop
}
