package device

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/clockmirror/internal/state"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestFetchSnapshot(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathDisplay || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"date":"THU 24 MAR","landscapeMode":true,"home":{"label":"SYDNEY","time":"09:15"},"remote":[{"label":"LONDON","time":"23:15","prevDay":true}],"clock":{"hour":9,"minute":15,"second":2}}`)
	}))

	snap, err := c.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot() error: %v", err)
	}
	if !snap.LandscapeMode || snap.Home.Label != "SYDNEY" || len(snap.Remote) != 1 || snap.Clock == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestFetchSnapshotErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"status", http.StatusInternalServerError, "boom", ErrStatus},
		{"malformed", http.StatusOK, `{"date":`, state.ErrMalformedSnapshot},
		{"missing home", http.StatusOK, `{"date":"x"}`, state.ErrMalformedSnapshot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			_, err := c.FetchSnapshot(context.Background())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	start := time.Now()
	if _, err := c.FetchSnapshot(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected the request to give up quickly, took %s", elapsed)
	}
}

func TestStateAndTimezones(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathState, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"firmware":"2.3.0","hostname":"worldclock","uptime":3600,"freeHeap":120000,"debugLevel":3,"wifi_ssid":"home","wifi_ip":"10.0.0.7","wifi_rssi":-61,"homeCity":{"label":"SYDNEY","tz":"AEST-10AEDT,M10.1.0/2,M4.1.0/3"},"remoteCities":[{"label":"TOKYO","tz":"JST-9"}]}`)
	})
	mux.HandleFunc(PathTimezones, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"name":"Sydney, Australia","tz":"AEST-10AEDT,M10.1.0/2,M4.1.0/3"},{"name":"Tokyo, Japan","tz":"JST-9"}]`)
	})
	c := newTestClient(t, mux)

	st, err := c.State(context.Background())
	if err != nil {
		t.Fatalf("State() error: %v", err)
	}
	if st.Hostname != "worldclock" || st.WiFiRSSI != -61 || st.HomeCity.TZ == "" || len(st.RemoteCities) != 1 {
		t.Fatalf("unexpected state: %+v", st)
	}

	zones, err := c.Timezones(context.Background())
	if err != nil {
		t.Fatalf("Timezones() error: %v", err)
	}
	if len(zones) != 2 || zones[1].Name != "Tokyo, Japan" {
		t.Fatalf("unexpected timezones: %+v", zones)
	}
}

func TestPostConfig(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathConfig {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected json content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		got = string(body)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))

	cfg := CityConfig{
		HomeCity:     City{Label: "SYDNEY", TZ: "AEST-10AEDT,M10.1.0/2,M4.1.0/3"},
		RemoteCities: []City{{Label: "TOKYO", TZ: "JST-9"}},
	}
	if err := c.PostConfig(context.Background(), cfg); err != nil {
		t.Fatalf("PostConfig() error: %v", err)
	}
	if !strings.Contains(got, `"homeCity":{"label":"SYDNEY"`) || !strings.Contains(got, `"tz":"JST-9"`) {
		t.Fatalf("unexpected body: %s", got)
	}

	cfg.RemoteCities = make([]City, 6)
	if err := c.PostConfig(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for six remote cities")
	}
}

func TestSetDebugLevel(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"level":4}` {
			t.Fatalf("unexpected body: %s", body)
		}
		_, _ = io.WriteString(w, `{"success":true,"debugLevel":4}`)
	}))

	level, err := c.SetDebugLevel(context.Background(), DebugVerbose)
	if err != nil || level != DebugVerbose {
		t.Fatalf("expected level 4, got %d (%v)", level, err)
	}
	if _, err := c.SetDebugLevel(context.Background(), 5); err == nil {
		t.Fatalf("expected range error for level 5")
	}
}

func TestActionsReturnAcknowledgement(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathReboot:
			_, _ = io.WriteString(w, "Rebooting device...")
		case PathResetWiFi:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))

	msg, err := c.Reboot(context.Background())
	if err != nil || msg != "Rebooting device..." {
		t.Fatalf("unexpected reboot result %q (%v)", msg, err)
	}
	if _, err := c.ResetWiFi(context.Background()); !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
}

func TestNewClientNormalizesAddress(t *testing.T) {
	c, err := NewClient("worldclock.local/", 0)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.BaseURL() != "http://worldclock.local" {
		t.Fatalf("unexpected base url %q", c.BaseURL())
	}
	if _, err := NewClient("  ", 0); err == nil {
		t.Fatalf("expected error for empty address")
	}
}
