package spectate

import (
	"net/http"
	"sync"
	"time"

	"dianti/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	// Spectators are read-only; any origin may watch.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serialises writes; the hub and the ping loop both write.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) Send(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// Handler upgrades to a websocket and registers the connection as a watcher.
func Handler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.GetLogger()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("upgrade")
			return
		}
		wc := &wsConn{conn: conn}

		conn.SetReadLimit(1 << 10)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		reply := make(chan JoinResult, 1)
		select {
		case h.Inbox <- Join{Conn: wc, Reply: reply}:
		case <-h.quit:
			_ = conn.Close()
			return
		}
		var res JoinResult
		select {
		case res = <-reply:
		case <-h.quit:
			_ = conn.Close()
			return
		}
		log.Info().Str("watcher", res.WatcherID).Str("remote", r.RemoteAddr).Msg("watcher joined")

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := wc.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Watchers never send anything meaningful; read only to notice the disconnect.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		close(done)
		select {
		case h.Inbox <- Leave{WatcherID: res.WatcherID}:
		case <-h.quit:
		}
		log.Info().Str("watcher", res.WatcherID).Msg("watcher left")
	}
}

// Serve starts the spectator endpoint at /watch on addr in the background.
func Serve(addr string, h *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", Handler(h))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.GetLogger().Info().Str("addr", addr).Msg("spectator feed listening (ws endpoint: /watch)")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Error().Err(err).Msg("spectator feed stopped")
		}
	}()
	return srv
}
