package protocol

import (
	"encoding/json"
)

// envelope types pushed to spectators.
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
)

// Direction and action are plain booleans on the wire.
const (
	Up   = true
	Down = false
	Move = true
	Stop = false
)

const (
	DefaultAPIURL = "https://dianti.secondspace.dev/api"
	BottomFloor   = 1
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
