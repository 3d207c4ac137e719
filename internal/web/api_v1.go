package web

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/rook-computer/clockmirror/internal/device"
	"github.com/rook-computer/clockmirror/internal/render"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxProxyBodyBytes = 64 << 10
	maxQRCodeSizePx   = 1024
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type statusResponse struct {
	Device              string     `json:"device"`
	Console             string     `json:"console,omitempty"`
	StartedAt           time.Time  `json:"startedAt"`
	Uptime              string     `json:"uptime"`
	PollIntervalMs      int64      `json:"pollIntervalMs"`
	Frames              uint64     `json:"frames"`
	Unchanged           uint64     `json:"unchanged"`
	Failures            uint64     `json:"failures"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastErrorAt         *time.Time `json:"lastErrorAt,omitempty"`
	LastFrameAt         *time.Time `json:"lastFrameAt,omitempty"`
	LastFrame           string     `json:"lastFrame,omitempty"`
	Seq                 uint64     `json:"seq"`
	Hash                string     `json:"hash,omitempty"`
	Mode                string     `json:"mode"`
	SurfaceWidth        int        `json:"surfaceWidth"`
	SurfaceHeight       int        `json:"surfaceHeight"`
}

// deviceRoutes maps console proxy names to device endpoints.
var deviceRoutes = map[string]struct {
	method string
	path   string
}{
	"state":       {http.MethodGet, device.PathState},
	"timezones":   {http.MethodGet, device.PathTimezones},
	"debug":       {http.MethodGet, device.PathDebug},
	"display":     {http.MethodGet, device.PathDisplay},
	"config":      {http.MethodPost, device.PathConfig},
	"debug-level": {http.MethodPost, device.PathDebugLevel},
	"reboot":      {http.MethodPost, device.PathReboot},
	"reset-wifi":  {http.MethodPost, device.PathResetWiFi},
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/mirror.png", func(w http.ResponseWriter, r *http.Request) { handleMirrorPNG(w, r, deps) })
	mux.HandleFunc("/mirror.ppm", func(w http.ResponseWriter, r *http.Request) { handleMirrorPPM(w, r, deps) })
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) { handleSnapshot(w, r, deps) })
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/qr.png", func(w http.ResponseWriter, r *http.Request) { handleQRCode(w, r, deps) })
	mux.HandleFunc("/device/", func(w http.ResponseWriter, r *http.Request) { handleDeviceProxy(w, r, deps) })
	return mux
}

func handleMirrorPNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	data, etag, seq, ok := deps.Frames.PNG()
	if !ok {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Frame-Seq", strconv.FormatUint(seq, 10))
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func handleMirrorPPM(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	frame, ok := deps.Frames.Latest()
	if !ok || frame.Image == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := render.EncodePPM(&buf, frame.Image); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	setDownloadHeaders(w, fmt.Sprintf("mirror-%d.ppm", frame.Seq), "image/x-portable-pixmap")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func handleSnapshot(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	frame, ok := deps.Frames.Latest()
	if !ok || frame.Placeholder {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no snapshot received yet")
		return
	}
	writeJSON(w, http.StatusOK, frame.Snapshot)
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, buildStatus(deps, time.Now()))
}

func buildStatus(deps APIV1Deps, now time.Time) statusResponse {
	st := deps.Status.Snapshot()
	resp := statusResponse{
		Device:              deps.DeviceAddr,
		Console:             deps.ConsoleURL,
		StartedAt:           st.StartedAt,
		Uptime:              strings.TrimSuffix(humanize.RelTime(st.StartedAt, now, "", ""), " "),
		PollIntervalMs:      deps.PollInterval.Milliseconds(),
		Frames:              st.Frames,
		Unchanged:           st.Unchanged,
		Failures:            st.Failures,
		ConsecutiveFailures: st.ConsecutiveFailures,
		LastError:           st.LastError,
		Seq:                 st.LastSeq,
		Mode:                "portrait",
		SurfaceWidth:        st.SurfaceWidth,
		SurfaceHeight:       st.SurfaceHeight,
	}
	if st.Landscape {
		resp.Mode = "landscape"
	}
	if st.LastHash != 0 {
		resp.Hash = fmt.Sprintf("%016x", st.LastHash)
	}
	if !st.LastErrorAt.IsZero() {
		at := st.LastErrorAt
		resp.LastErrorAt = &at
	}
	if !st.LastFrameAt.IsZero() {
		at := st.LastFrameAt
		resp.LastFrameAt = &at
		resp.LastFrame = humanize.RelTime(at, now, "ago", "from now")
	}
	return resp
}

func handleQRCode(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	payload := r.URL.Query().Get("text")
	if payload == "" {
		payload = deps.ConsoleURL
	}
	if payload == "" {
		writeAPIError(w, http.StatusNotFound, "no_payload", "no console url configured")
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxQRCodeSizePx {
			writeAPIError(w, http.StatusBadRequest, "bad_size", fmt.Sprintf("size must be 1-%d", maxQRCodeSizePx))
			return
		}
		size = parsed
	}

	img, err := render.GenerateQRCodeImage(payload, size, color.White, color.Black)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleDeviceProxy relays /device/{name} to the clock, passing its status,
// content type and body through unchanged.
func handleDeviceProxy(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/device/"), "/")
	route, ok := deviceRoutes[name]
	if !ok {
		writeAPIError(w, http.StatusNotFound, "not_found", "unknown device endpoint")
		return
	}
	if r.Method != route.method {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use "+route.method)
		return
	}

	var body []byte
	if r.Method == http.MethodPost {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBodyBytes+1))
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "bad_body", err.Error())
			return
		}
		if len(data) > maxProxyBodyBytes {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return
		}
		if name == "config" || name == "debug-level" {
			if !json.Valid(data) {
				writeAPIError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON")
				return
			}
		}
		body = data
	}

	status, contentType, data, err := deps.Device.Forward(r.Context(), route.method, route.path, body)
	if err != nil {
		deps.Logger.Errorf("web", "device %s %s: %v", route.method, route.path, err)
		writeAPIError(w, http.StatusBadGateway, "device_unreachable", err.Error())
		return
	}
	if route.method == http.MethodPost {
		deps.Logger.Infof("web", "device %s %s -> %d", route.method, route.path, status)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
