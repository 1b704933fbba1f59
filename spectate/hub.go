package spectate

import (
	"sync/atomic"

	"dianti/logger"
	"dianti/protocol"

	"github.com/google/uuid"
)

const inboxSize = 256

// Hub fans turn snapshots out to every connected watcher. All watcher state
// is owned by the Run goroutine; other goroutines talk to it through Inbox.
type Hub struct {
	Inbox    chan any
	clients  map[string]Conn
	latest   *protocol.Snapshot
	watchers atomic.Int32
	quit     chan struct{}
}

func New() *Hub {
	return &Hub{
		Inbox:   make(chan any, inboxSize),
		clients: make(map[string]Conn),
		quit:    make(chan struct{}),
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// NumWatchers returns the current number of connected watchers.
func (h *Hub) NumWatchers() int {
	return int(h.watchers.Load())
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			for id, c := range h.clients {
				_ = c.Close()
				delete(h.clients, id)
			}
			h.watchers.Store(0)
			return
		case cmd := <-h.Inbox:
			h.handleCommand(cmd)
		}
	}
}

// Observe queues a snapshot for broadcast. It never blocks: when the inbox
// is full the snapshot is dropped and the next turn replaces it anyway.
func (h *Hub) Observe(turn int, st protocol.State) {
	select {
	case h.Inbox <- Publish{Snapshot: protocol.Snapshot{Turn: turn, State: st}}:
	default:
		logger.GetLogger().Debug().Int("turn", turn).Msg("spectator inbox full, snapshot dropped")
	}
}

func (h *Hub) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		id := uuid.New().String()
		h.clients[id] = c.Conn
		h.watchers.Store(int32(len(h.clients)))
		c.Reply <- JoinResult{WatcherID: id}

		if b, err := protocol.Encode(protocol.MsgWelcome, protocol.WatchWelcome{WatcherID: id}); err == nil {
			if err := c.Conn.Send(b); err != nil {
				h.removeWatcher(id)
				return
			}
		}
		if h.latest != nil {
			h.sendTo(id, *h.latest)
		}
	case Leave:
		h.removeWatcher(c.WatcherID)
	case Publish:
		snap := c.Snapshot
		h.latest = &snap
		h.broadcast(snap)
	}
}

func (h *Hub) removeWatcher(id string) {
	if c, ok := h.clients[id]; ok {
		_ = c.Close()
	}
	delete(h.clients, id)
	h.watchers.Store(int32(len(h.clients)))
}

func (h *Hub) broadcast(snap protocol.Snapshot) {
	b, err := protocol.Encode(protocol.MsgState, snap)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("encode snapshot")
		return
	}

	var failed []string
	for id, c := range h.clients {
		if err := c.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.removeWatcher(id)
	}
}

func (h *Hub) sendTo(id string, snap protocol.Snapshot) {
	b, err := protocol.Encode(protocol.MsgState, snap)
	if err != nil {
		return
	}
	if err := h.clients[id].Send(b); err != nil {
		h.removeWatcher(id)
	}
}
