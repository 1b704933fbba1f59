package simulator

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dianti/client"
	"dianti/driver"
	"dianti/policy"
	"dianti/protocol"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(DefaultBuildings())
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv
}

func TestSweepBotPlaysFullRun(t *testing.T) {
	_, srv := newTestServer(t)

	reg := protocol.Registration{Bot: "updown-go-bot", BuildingName: "tiny_random", Email: "bob@mail.com", Event: "secondspace2025", Sandbox: true}
	sess, st, err := client.Start(client.NewHTTPTransport(srv.URL+"/api"), reg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.NumFloors() != 10 || len(st.Elevators) != 2 {
		t.Fatalf("floors=%d elevators=%d, want 10 and 2", sess.NumFloors(), len(st.Elevators))
	}

	d := &driver.Driver{Session: sess, Policy: policy.Sweep{}, NumFloors: sess.NumFloors()}
	res, err := d.Run(st)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Turns != 30 {
		t.Fatalf("turns = %d, want 30", res.Turns)
	}
	if res.Score == nil || res.ReplayURL == nil {
		t.Fatalf("final state should carry score and replay url: %+v", res)
	}
	if !strings.HasSuffix(*res.ReplayURL, "/replay/"+sess.Token()) {
		t.Fatalf("replay url = %q", *res.ReplayURL)
	}

	resp, err := http.Get(*res.ReplayURL)
	if err != nil {
		t.Fatalf("get replay: %v", err)
	}
	defer resp.Body.Close()
	var rep Replay
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if len(rep.Turns) != 31 || rep.Score != *res.Score || rep.Bot != "updown-go-bot" {
		t.Fatalf("replay turns=%d score=%d bot=%q", len(rep.Turns), rep.Score, rep.Bot)
	}
	if rep.Turns[0].CurTurn != 0 || rep.Turns[30].Running {
		t.Fatalf("replay should run from turn 0 to the final, stopped state")
	}
}

func TestRandomBotPlaysFullRun(t *testing.T) {
	_, srv := newTestServer(t)

	sess, st, err := client.Start(client.NewHTTPTransport(srv.URL+"/api"), protocol.Registration{Bot: "random-go-bot", BuildingName: "medium_random", Sandbox: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	d := &driver.Driver{Session: sess, Policy: policy.NewRandom(nil), NumFloors: sess.NumFloors()}
	res, err := d.Run(st)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Turns != 80 || sess.Turn() != 80 {
		t.Fatalf("turns = %d / %d, want 80", res.Turns, sess.Turn())
	}
}

func TestUnknownBuildingIsRejected(t *testing.T) {
	_, srv := newTestServer(t)
	_, _, err := client.Start(client.NewHTTPTransport(srv.URL+"/api"), protocol.Registration{Bot: "b", BuildingName: "moon_base"})
	var te *client.TransportError
	if !errors.As(err, &te) || !strings.Contains(err.Error(), "Unknown building") {
		t.Fatalf("err = %v, want rejected registration", err)
	}
}

func TestUnknownTokenIsRejected(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api", "application/json", strings.NewReader(`{"token":"nope","commands":[]}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var st protocol.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil || len(st.Errors) != 1 {
		t.Fatalf("errors = %v (%v), want one", st.Errors, err)
	}
}

func TestMalformedBodyIsRejected(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api", "application/json", strings.NewReader(`[1,2`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestScoredRunsReachLeaderboard(t *testing.T) {
	s, srv := newTestServer(t)
	s.BaseURL = "https://replays.example"

	for _, sandbox := range []bool{true, false} {
		sess, st, err := client.Start(client.NewHTTPTransport(srv.URL+"/api"), protocol.Registration{Bot: "b", BuildingName: "tiny_random", Event: "ev", Sandbox: sandbox})
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		res, err := (&driver.Driver{Session: sess, Policy: policy.Sweep{}, NumFloors: sess.NumFloors()}).Run(st)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if *res.ReplayURL != "https://replays.example/replay/"+sess.Token() {
			t.Fatalf("replay url = %q", *res.ReplayURL)
		}
	}

	resp, err := http.Get(srv.URL + "/scores?event=ev")
	if err != nil {
		t.Fatalf("get scores: %v", err)
	}
	defer resp.Body.Close()
	var entries []ScoreEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leaderboard has %d entries, want only the scored run", len(entries))
	}
}

func TestStepAfterFinishKeepsHistory(t *testing.T) {
	s, srv := newTestServer(t)
	sess, st, err := client.Start(client.NewHTTPTransport(srv.URL+"/api"), protocol.Registration{Bot: "b", BuildingName: "tiny_random", Sandbox: true})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := (&driver.Driver{Session: sess, Policy: policy.Sweep{}, NumFloors: sess.NumFloors()}).Run(st); err != nil {
		t.Fatalf("run: %v", err)
	}

	body, _ := json.Marshal(protocol.StepRequest{Token: sess.Token(), Commands: []protocol.Command{}})
	resp, err := http.Post(srv.URL+"/api", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var after protocol.State
	if err := json.NewDecoder(resp.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Running || len(after.Errors) != 1 {
		t.Fatalf("unexpected state after finish: %+v", after)
	}

	s.mu.Lock()
	n := len(s.sessions[sess.Token()].history)
	s.mu.Unlock()
	if n != 31 {
		t.Fatalf("history = %d snapshots, want 31", n)
	}
}
