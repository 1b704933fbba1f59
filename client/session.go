package client

import (
	"errors"

	"dianti/logger"
	"dianti/protocol"
)

// Session is one registered simulation run. The token is fixed at Start
// and only the turn counter changes afterwards.
type Session struct {
	transport Transport
	token     string
	numFloors int
	turn      int
}

// wire shapes: running has no usable zero value, so its absence must be visible.
type stateReply struct {
	protocol.State
	Running *bool `json:"running"`
}

type welcomeReply struct {
	protocol.Welcome
	Running *bool `json:"running"`
}

var errNoRunning = errors.New("response has no running flag")

// Start registers with the server and returns the session plus the initial world state.
func Start(t Transport, reg protocol.Registration) (*Session, protocol.State, error) {
	var reply welcomeReply
	if err := t.Post(reg, &reply); err != nil {
		return nil, protocol.State{}, err
	}
	if reply.Running == nil {
		return nil, protocol.State{}, &ProtocolError{Op: "start", Err: errNoRunning}
	}
	w := reply.Welcome
	w.Running = *reply.Running
	if w.Token == "" {
		return nil, protocol.State{}, &ProtocolError{Op: "start", Err: errors.New("response has no token")}
	}
	if w.NumFloors <= 0 {
		return nil, protocol.State{}, &ProtocolError{Op: "start", Err: errors.New("response has no positive num_floors")}
	}

	s := &Session{transport: t, token: w.Token, numFloors: w.NumFloors}
	logger.GetLogger().Info().
		Str("building", reg.BuildingName).
		Str("bot", reg.Bot).
		Int("floors", w.NumFloors).
		Bool("sandbox", reg.Sandbox).
		Msg("simulation started")
	s.logReported(w.State)
	return s, w.State, nil
}

// Step sends one batch of commands and returns the next world state.
func (s *Session) Step(cmds []protocol.Command) (protocol.State, error) {
	s.turn++
	logger.GetLogger().Info().Int("turn", s.turn).Msg("Turn")

	if cmds == nil {
		cmds = []protocol.Command{}
	}
	var reply stateReply
	if err := s.transport.Post(protocol.StepRequest{Token: s.token, Commands: cmds}, &reply); err != nil {
		return protocol.State{}, err
	}
	if reply.Running == nil {
		return protocol.State{}, &ProtocolError{Op: "step", Err: errNoRunning}
	}
	st := reply.State
	st.Running = *reply.Running
	s.logReported(st)
	return st, nil
}

func (s *Session) Token() string  { return s.token }
func (s *Session) NumFloors() int { return s.numFloors }
func (s *Session) Turn() int      { return s.turn }

// Reported wraps the state's error list as ServerReportedErrors.
func (s *Session) Reported(st protocol.State) []*ServerReportedError {
	out := make([]*ServerReportedError, 0, len(st.Errors))
	for _, msg := range st.Errors {
		out = append(out, &ServerReportedError{Turn: s.turn, Message: msg})
	}
	return out
}

func (s *Session) logReported(st protocol.State) {
	for _, e := range s.Reported(st) {
		logger.GetLogger().Warn().Err(e).Msg("Error")
	}
}
