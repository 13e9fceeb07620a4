package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/splashseq/internal/clock"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

type fixture struct {
	srv   *Server
	hub   *Hub
	ctrl  *sequence.Controller
	clock *clock.Virtual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := sequence.DefaultTimings().Config(3)
	hub := NewHub(presentation.DefaultContent(), 4)
	v := clock.NewVirtual(time.Unix(0, 0))
	ctrl := sequence.NewController(cfg, sequence.WithClock(v), sequence.WithObserver(hub))
	t.Cleanup(ctrl.Deactivate)
	return &fixture{
		srv:   New("127.0.0.1:0", hub, cfg, newTestLogger()),
		hub:   hub,
		ctrl:  ctrl,
		clock: v,
	}
}

func TestServer_Directives(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.clock.Advance(6 * time.Second)

	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/directives", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Phase    string `json:"phase"`
		Headline struct {
			Visible bool   `json:"visible"`
			Text    string `json:"text"`
		} `json:"headline"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != "rotation-active" || !got.Headline.Visible || got.Headline.Text != "Sell." {
		t.Errorf("directives = %+v", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestServer_TimelineAndHealth(t *testing.T) {
	f := newFixture(t)
	h := f.srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/timeline", http.NoBody))
	var tl TimelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tl); err != nil {
		t.Fatalf("decode timeline: %v", err)
	}
	if len(tl.Entries) != 10 || tl.EstimatedMS != 14000 || tl.RotationPeriodMS != 2000 {
		t.Errorf("timeline = %d entries, %dms estimated, %dms period", len(tl.Entries), tl.EstimatedMS, tl.RotationPeriodMS)
	}
	if last := tl.Entries[len(tl.Entries)-1]; last.Kind != "relative" || last.Anchor != "rotation-complete" {
		t.Errorf("last entry = %+v", last)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", http.NoBody))
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) || !strings.Contains(rec.Body.String(), `"phase":"idle"`) {
		t.Errorf("health body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("DELETE", "/timeline", http.NoBody))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d", rec.Code)
	}
}

func readEvent(t *testing.T, sc *bufio.Scanner) presentation.Directives {
	t.Helper()
	for sc.Scan() {
		line := sc.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var d presentation.Directives
			if err := json.Unmarshal([]byte(data), &d); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			return d
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return presentation.Directives{}
}

func TestServer_EventStream(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()
	defer f.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/events", http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	if d := readEvent(t, sc); d.Phase != sequence.PhaseIdle {
		t.Errorf("initial event phase = %v", d.Phase)
	}

	f.ctrl.Activate()
	f.clock.Advance(200 * time.Millisecond)
	d := readEvent(t, sc)
	if d.Phase != sequence.PhaseIconsEntering {
		t.Errorf("first update phase = %v, want icons-entering", d.Phase)
	}
	if len(d.Icons) != 14 || d.Icons[0].Pose != presentation.PoseFloating {
		t.Errorf("icons = %d, first pose %v", len(d.Icons), d.Icons[0].Pose)
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer taken.Close()

	f := newFixture(t)
	addr := taken.Addr().String()
	srv := New(addr, f.hub, sequence.DefaultTimings().Config(3), newTestLogger())
	err = srv.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded on an address in use")
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Errorf("listen error %v does not unwrap to *net.OpError", err)
	}
	if !strings.Contains(err.Error(), "listen on "+addr) {
		t.Errorf("error %q does not name the address", err)
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url + "/healthz"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	stream, err := http.Get(url + "/events")
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer stream.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
