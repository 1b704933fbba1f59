package simulator

import (
	"encoding/json"
	"hash/fnv"
	"io"
	"net/http"
	"sort"
	"sync"

	"dianti/logger"
	"dianti/protocol"

	"github.com/tiendc/go-deepcopy"
	"github.com/xyproto/randomstring"
)

type session struct {
	state   *State
	history []protocol.State // one frozen snapshot per turn, turn 0 first
}

// Replay is the recorded run served at /replay/{token}.
type Replay struct {
	Token    string           `json:"token"`
	Building string           `json:"building"`
	Bot      string           `json:"bot"`
	Sandbox  bool             `json:"sandbox"`
	Score    int              `json:"score"`
	Turns    []protocol.State `json:"turns"`
}

type ScoreEntry struct {
	Bot      string `json:"bot"`
	Email    string `json:"email"`
	Building string `json:"building"`
	Score    int    `json:"score"`
}

// Server speaks the same wire protocol as the hosted simulation: a POST
// without a token registers, a POST with one steps.
type Server struct {
	BaseURL string // prefix for replay links; taken from the request host when empty

	buildings map[string]Building
	mux       *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*session
	scores   map[string][]ScoreEntry // by event, scored runs only
}

func NewServer(buildings map[string]Building) *Server {
	s := &Server{
		buildings: buildings,
		sessions:  make(map[string]*session),
		scores:    make(map[string][]ScoreEntry),
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api", s.handleAPI)
	s.mux.HandleFunc("GET /replay/{token}", s.handleReplay)
	s.mux.HandleFunc("GET /scores", s.handleScores)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Could not read request body"}})
		return
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Request body is not a JSON object"}})
		return
	}

	if _, ok := probe["token"]; ok {
		var req protocol.StepRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Malformed step request: " + err.Error()}})
			return
		}
		s.step(w, r, req)
		return
	}

	var reg protocol.Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Malformed registration: " + err.Error()}})
		return
	}
	s.register(w, reg)
}

func (s *Server) register(w http.ResponseWriter, reg protocol.Registration) {
	b, ok := s.buildings[reg.BuildingName]
	if !ok {
		writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Unknown building: " + reg.BuildingName}})
		return
	}

	s.mu.Lock()
	token := randomstring.HumanFriendlyString(TokenLength)
	for s.sessions[token] != nil {
		token = randomstring.HumanFriendlyString(TokenLength)
	}
	st := NewState(token, b, seedFor(token))
	st.Bot, st.Email, st.Event, st.Sandbox = reg.Bot, reg.Email, reg.Event, reg.Sandbox
	sess := &session{state: st}
	s.sessions[token] = sess
	snap := s.record(sess)
	s.mu.Unlock()

	logger.GetLogger().Info().
		Str("token", token).
		Str("building", b.Name).
		Str("bot", reg.Bot).
		Bool("sandbox", reg.Sandbox).
		Msg("simulation registered")
	writeJSON(w, http.StatusOK, protocol.Welcome{Token: token, NumFloors: b.Floors, State: snap})
}

func (s *Server) step(w http.ResponseWriter, r *http.Request, req protocol.StepRequest) {
	s.mu.Lock()
	sess, ok := s.sessions[req.Token]
	if !ok {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, protocol.State{Errors: []string{"Unknown token"}})
		return
	}

	st := sess.state
	wasRunning := st.Running
	Step(st, req.Commands)
	if wasRunning && !st.Running {
		st.ReplayURL = s.replayURL(r, st.Token)
		if !st.Sandbox {
			s.scores[st.Event] = append(s.scores[st.Event], ScoreEntry{Bot: st.Bot, Email: st.Email, Building: st.Building.Name, Score: st.Score})
		}
		logger.GetLogger().Info().Str("token", st.Token).Int("score", st.Score).Int("delivered", st.Delivered).Msg("simulation finished")
	}
	var snap protocol.State
	if wasRunning {
		snap = s.record(sess)
	} else {
		snap = st.Snapshot()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

// record appends a deep copy of the current snapshot to the replay history.
func (s *Server) record(sess *session) protocol.State {
	snap := sess.state.Snapshot()
	var frozen protocol.State
	if err := deepcopy.Copy(&frozen, snap); err != nil {
		logger.GetLogger().Error().Err(err).Str("token", sess.state.Token).Msg("snapshot copy failed, replay will skip this turn")
		return snap
	}
	sess.history = append(sess.history, frozen)
	return snap
}

func (s *Server) replayURL(r *http.Request, token string) string {
	base := s.BaseURL
	if base == "" {
		base = "http://" + r.Host
	}
	return base + "/replay/" + token
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		http.Error(w, "unknown replay", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, Replay{
		Token:    token,
		Building: sess.state.Building.Name,
		Bot:      sess.state.Bot,
		Sandbox:  sess.state.Sandbox,
		Score:    sess.state.Score,
		Turns:    sess.history,
	})
}

// handleScores lists scored runs of one event, best first.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	event := r.URL.Query().Get("event")
	s.mu.Lock()
	out := append([]ScoreEntry(nil), s.scores[event]...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if out == nil {
		out = []ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, out)
}

func seedFor(token string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return h.Sum64()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("write response")
	}
}
