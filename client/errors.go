package client

import "fmt"

// TransportError means the request never produced a usable HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means a response arrived but does not have the expected shape.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ServerReportedError is one entry of a world state's error list. Never fatal.
type ServerReportedError struct {
	Turn    int
	Message string
}

func (e *ServerReportedError) Error() string {
	return fmt.Sprintf("turn %d: server reported: %s", e.Turn, e.Message)
}
