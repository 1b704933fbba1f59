package spectate

import "dianti/protocol"

type Conn interface {
	Send([]byte) error
	Close() error
}

// Join: issued once per websocket after upgrade
type Join struct {
	Conn  Conn
	Reply chan<- JoinResult
}

type JoinResult struct {
	WatcherID string
}

// Leave: issued on disconnect
type Leave struct {
	WatcherID string
}

// Publish: latest turn snapshot from the driver
type Publish struct {
	Snapshot protocol.Snapshot
}
