package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yopisonhaji/prototype-doorprize/internal/config"
	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{Project: config.ProjectConfig{Bridge: config.BridgeConfig{
		Enabled:        true,
		Host:           " 0.0.0.0 ",
		Port:           9001,
		PingInterval:   5 * time.Second,
		AllowedOrigins: []string{"http://projector.local:8080"},
	}}}
	settings := SettingsFromConfig(cfg)
	if !settings.Enabled || settings.Address() != "0.0.0.0:9001" {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.WriteTimeout != DefaultWriteTimeout || settings.pongWait() != 10*time.Second {
		t.Fatalf("unexpected timings %+v", settings)
	}
	if got := settings.corsOrigins(); len(got) != 1 || got[0] != "http://projector.local:8080" {
		t.Fatalf("unexpected cors origins %q", got)
	}
}

func TestSettingsFromConfigDefaults(t *testing.T) {
	settings := SettingsFromConfig(nil)
	if settings.Enabled {
		t.Fatalf("bridge should be off unless configured")
	}
	if settings.Address() != "127.0.0.1:8766" {
		t.Fatalf("unexpected default address %s", settings.Address())
	}
	if settings.PingInterval != DefaultPingInterval || settings.corsOrigins()[0] != "*" {
		t.Fatalf("unexpected defaults %+v", settings)
	}
}

func TestSettingsCheckOrigin(t *testing.T) {
	settings := Settings{AllowedOrigins: []string{"http://projector.local:8080"}}
	cases := map[string]bool{
		"":                             true,
		"http://projector.local:8080":  true,
		"HTTP://Projector.local:8080/": true,
		"http://elsewhere.example":     false,
	}
	for origin, want := range cases {
		req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1/ws", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if got := settings.checkOrigin(req); got != want {
			t.Fatalf("origin %q: got %v, want %v", origin, got, want)
		}
	}
	if !(Settings{}).checkOrigin(&http.Request{Header: http.Header{"Origin": {"http://any"}}}) {
		t.Fatalf("empty allow list should accept any origin")
	}
}

func TestServerDisabled(t *testing.T) {
	srv := NewServer(Settings{})
	if err := srv.Start(context.Background()); err == nil {
		t.Fatalf("expected disabled server to refuse to start")
	}
}

func startTestServer(t *testing.T, origins ...string) *Server {
	t.Helper()
	fixed := time.Unix(1730000000, 0).UTC()
	settings := Settings{Enabled: true, Host: "127.0.0.1", Port: 0, WriteTimeout: time.Second, PingInterval: time.Second, AllowedOrigins: origins}
	srv := NewServer(settings, WithClock(func() time.Time { return fixed }))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

var sampleRoster = []participant.Participant{
	{ID: "id-1", Name: "Ayu", Number: "1"},
	{ID: "id-2", Name: "Budi", Number: "2"},
	{ID: "id-3", Name: "Citra", Number: "3"},
	{ID: "id-4", Name: "Dewi", Number: "4"},
}

func sampleStart() draw.Start {
	return draw.Start{Participants: sampleRoster, Plan: draw.Plan{WinnerIndex: 2, Slices: 4, StartAngle: 0.5}}
}

func sampleReveal(index int) draw.Reveal {
	winner := sampleRoster[index]
	return draw.Reveal{
		Winner:      winner,
		Selection:   draw.Selection{Winner: winner, Index: index, Outcome: draw.OutcomeForcedHit},
		Plan:        draw.Plan{WinnerIndex: index, Slices: 4},
		Orientation: 0.785,
	}
}

func TestServerHealthAndState(t *testing.T) {
	srv := startTestServer(t)

	resp, err := http.Get(srv.BaseURL() + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != string(StatusReady) || health.Version != ProtocolVersion {
		t.Fatalf("unexpected health %+v", health)
	}

	srv.Sink().RenderFrame(draw.Frame{Angle: 1.5, Progress: 0.4})
	srv.Sink().Reveal(sampleReveal(2))

	stateResp, err := http.Get(srv.BaseURL() + "/state")
	if err != nil {
		t.Fatalf("state request: %v", err)
	}
	defer stateResp.Body.Close()
	var snap Snapshot
	if err := json.NewDecoder(stateResp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.Frame == nil || snap.Frame.Angle != 1.5 {
		t.Fatalf("expected last frame in state, got %+v", snap.Frame)
	}
	if snap.Reveal == nil || snap.Reveal.Winner == nil || snap.Reveal.Winner.Name != "Citra" {
		t.Fatalf("expected reveal in state, got %+v", snap.Reveal)
	}
	if snap.Reveal.DrawID != snap.Frame.DrawID {
		t.Fatalf("frame and reveal of one draw should share an id")
	}
}

func TestServerPushesEventsToDisplays(t *testing.T) {
	srv := startTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.BaseURL(), "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("display never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	srv.Sink().SpinStarted(sampleStart())
	srv.Sink().RenderFrame(draw.Frame{Angle: 2, Progress: 0.5})
	srv.Sink().Reveal(sampleReveal(2))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var raw []string
	var got []Event
	for len(got) < 3 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		raw = append(raw, string(data))
		got = append(got, evt)
	}
	if got[0].Type != EventStart || got[0].Slices != 4 || len(got[0].Wheel) != 4 || got[0].Wheel[1].Name != "Budi" {
		t.Fatalf("expected start with the wheel layout, got %+v", got[0])
	}
	if got[1].Type != EventFrame || got[1].Angle != 2 || got[1].Slices != 4 {
		t.Fatalf("expected frame carrying the slice count, got %+v", got[1])
	}
	if got[2].Type != EventReveal || got[2].Winner.Number != "3" || got[2].Index == nil || *got[2].Index != 2 {
		t.Fatalf("expected reveal of number 3, got %+v", got[2])
	}
	if got[0].DrawID != got[2].DrawID {
		t.Fatalf("start and reveal of one draw should share an id")
	}
	for _, msg := range raw {
		if strings.Contains(msg, "forced") || strings.Contains(msg, "outcome") {
			t.Fatalf("displays must not learn how the winner was picked: %s", msg)
		}
	}
}

func TestServerRejectsDisallowedOrigin(t *testing.T) {
	srv := startTestServer(t, "http://projector.local:8080")
	wsURL := "ws" + strings.TrimPrefix(srv.BaseURL(), "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://elsewhere.example"}})
	if err == nil {
		t.Fatalf("expected upgrade from a foreign origin to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://projector.local:8080"}})
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestRevealEventKeepsSliceZero(t *testing.T) {
	data, err := json.Marshal(revealEvent("draw-1", sampleReveal(0), time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"index":0`) {
		t.Fatalf("winner on slice 0 lost its index: %s", data)
	}
	frame, err := json.Marshal(frameEvent("draw-1", 4, draw.Frame{}, time.Unix(0, 0)))
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	if strings.Contains(string(frame), `"index"`) {
		t.Fatalf("frames carry no winner index: %s", frame)
	}
}

func TestSinkRotatesDrawIDAfterReveal(t *testing.T) {
	srv := NewServer(Settings{})
	ids := []string{"draw-1", "draw-2"}
	srv.Sink().newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	sink := srv.Sink()
	sink.RenderFrame(draw.Frame{})
	sink.Reveal(sampleReveal(2))
	sink.RenderFrame(draw.Frame{})
	snap := sink.Snapshot()
	if snap.Reveal.DrawID != "draw-1" || snap.Frame.DrawID != "draw-2" {
		t.Fatalf("unexpected draw ids: reveal=%s frame=%s", snap.Reveal.DrawID, snap.Frame.DrawID)
	}
}

func TestSinkStartOpensFreshDraw(t *testing.T) {
	srv := NewServer(Settings{})
	ids := []string{"draw-1", "draw-2"}
	srv.Sink().newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	sink := srv.Sink()
	sink.SpinStarted(sampleStart())
	sink.RenderFrame(draw.Frame{Angle: 1})
	sink.Reveal(sampleReveal(2))
	sink.SpinStarted(sampleStart())

	snap := sink.Snapshot()
	if snap.Start == nil || snap.Start.DrawID != "draw-2" || snap.Start.Slices != 4 {
		t.Fatalf("expected the second draw's start, got %+v", snap.Start)
	}
	if snap.Frame != nil || snap.Reveal != nil {
		t.Fatalf("a new start should clear the previous draw from state: %+v", snap)
	}
}
