package protocol

import (
	"encoding/json"
	"fmt"
)

// Encode wraps a spectator payload (WatchWelcome, Snapshot) in an envelope of kind t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode spectator message: empty kind")
	}
	if payload == nil {
		return nil, fmt.Errorf("encode %q message: nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %q payload: %w", t, err)
	}

	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope reads the kind of a spectator message; the payload stays raw
// until the watcher knows whether it holds a welcome or a turn snapshot.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode spectator message: empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode spectator message: %w", err)
	}
	if e.T != MsgWelcome && e.T != MsgState {
		return Envelope{}, fmt.Errorf("decode spectator message: unknown kind %q", e.T)
	}
	return e, nil
}

// DecodePayload unpacks the payload, e.g. DecodePayload[Snapshot] for MsgState.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%q message has no payload", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("decode %q payload: %w", env.T, err)
	}
	return out, nil
}
