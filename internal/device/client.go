// Package device is a REST client for the clock's embedded web server.
package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rook-computer/clockmirror/internal/state"
)

const (
	DefaultTimeout = 3 * time.Second
	maxBodyBytes   = 1 << 20

	PathDisplay    = "/api/display"
	PathState      = "/api/state"
	PathTimezones  = "/api/timezones"
	PathDebug      = "/api/debug"
	PathConfig     = "/api/config"
	PathDebugLevel = "/api/debug-level"
	PathReboot     = "/api/reboot"
	PathResetWiFi  = "/api/reset-wifi"
)

// ErrStatus wraps every non-2xx response.
var ErrStatus = errors.New("device returned an error status")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to one device. Each request carries its own timeout so a hung
// device only delays the caller.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient accepts a host, host:port or full URL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("device: empty address")
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost: 2,
			},
		},
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// FetchSnapshot reads the display snapshot. Bad JSON is reported as
// state.ErrMalformedSnapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (state.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, PathDisplay, nil)
	if err != nil {
		return state.Snapshot{}, err
	}
	return state.DecodeSnapshot(body)
}

func (c *Client) State(ctx context.Context) (State, error) {
	var out State
	err := c.getJSON(ctx, PathState, &out)
	return out, err
}

func (c *Client) Timezones(ctx context.Context) ([]Timezone, error) {
	var out []Timezone
	err := c.getJSON(ctx, PathTimezones, &out)
	return out, err
}

func (c *Client) Debug(ctx context.Context) (DebugLog, error) {
	var out DebugLog
	err := c.getJSON(ctx, PathDebug, &out)
	return out, err
}

// PostConfig sends new cities. The device strips any ", Country" suffix
// itself and applies the change without a reboot.
func (c *Client) PostConfig(ctx context.Context, cfg CityConfig) error {
	if len(cfg.RemoteCities) > state.RemoteSlots {
		return fmt.Errorf("device: %d remote cities, at most %d", len(cfg.RemoteCities), state.RemoteSlots)
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, PathConfig, payload)
	return err
}

// SetDebugLevel returns the level the device confirmed.
func (c *Client) SetDebugLevel(ctx context.Context, level int) (int, error) {
	if level < DebugOff || level > DebugVerbose {
		return 0, fmt.Errorf("device: debug level %d out of range %d-%d", level, DebugOff, DebugVerbose)
	}
	payload, err := json.Marshal(debugLevelRequest{Level: level})
	if err != nil {
		return 0, err
	}
	body, err := c.do(ctx, http.MethodPost, PathDebugLevel, payload)
	if err != nil {
		return 0, err
	}
	var resp debugLevelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("device: decode debug-level response: %w", err)
	}
	return resp.DebugLevel, nil
}

// Reboot returns the device's plain-text acknowledgement.
func (c *Client) Reboot(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, PathReboot, nil)
	return strings.TrimSpace(string(body)), err
}

// ResetWiFi clears stored credentials; the device reboots into setup mode.
func (c *Client) ResetWiFi(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, PathResetWiFi, nil)
	return strings.TrimSpace(string(body)), err
}

// Forward performs an arbitrary request against the device and returns the
// raw status, content type and body. The console proxy uses it.
func (c *Client) Forward(ctx context.Context, method, path string, body []byte) (int, string, []byte, error) {
	resp, data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return 0, "", nil, err
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("device: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	resp, data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 120 {
			msg = msg[:120]
		}
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrStatus, method, path, resp.StatusCode, msg)
	}
	return data, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("device: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("device: read %s: %w", path, err)
	}
	return resp, data, nil
}
