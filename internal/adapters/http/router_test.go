package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/omEAGRAWAL/peercall/internal/app"
	"github.com/omEAGRAWAL/peercall/internal/config"
	"github.com/omEAGRAWAL/peercall/internal/core"
)

func startAPI(t *testing.T, coord *app.Coordinator) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:       "release",
		StaticPath: t.TempDir(),
		ReadLimit:  65536,
		SendBuffer: 32,
		StunURLs:   []string{"stun:stun.l.google.com:19302"},
	}

	r, err := SetupRouter(context.Background(), cfg, coord)
	if err != nil {
		t.Fatalf("setup router: %v", err)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestHealthz(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry())
	baseURL := startAPI(t, coord)

	var body map[string]string
	getJSON(t, baseURL+"/healthz", &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestICECatalogue(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry())
	baseURL := startAPI(t, coord)

	var body struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	getJSON(t, baseURL+"/api/ice", &body)
	if len(body.ICEServers) != 1 || body.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("unexpected ice catalogue: %+v", body)
	}
}

func TestUsersRoster(t *testing.T) {
	coord := app.NewCoordinator(app.NewRegistry())
	coord.Registry.Register("sid-1", "alice")
	baseURL := startAPI(t, coord)

	var roster []core.UserDTO
	getJSON(t, baseURL+"/api/users", &roster)
	if len(roster) != 1 || roster[0].Username != "alice" || roster[0].InCall {
		t.Fatalf("unexpected roster: %+v", roster)
	}
}
