package main

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/rook-computer/clockmirror/internal/device"
	"github.com/rook-computer/clockmirror/internal/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRouter serves the clock's REST surface plus the /sim control routes.
func NewRouter(c *SimControl) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(device.PathDisplay, func(w http.ResponseWriter, r *http.Request) {
		faults := c.Faults()
		if faults.DelayMS > 0 {
			select {
			case <-time.After(time.Duration(faults.DelayMS) * time.Millisecond):
			case <-r.Context().Done():
				return
			}
		}
		if faults.Fail {
			http.Error(w, "simulated failure", http.StatusInternalServerError)
			return
		}
		if faults.Malformed {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"date":"TUE 24 MAR","home":`)
			return
		}
		snap, err := c.Snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeSimJSON(w, http.StatusOK, snap)
	}).Methods(http.MethodGet)

	r.HandleFunc(device.PathState, func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, c.State())
	}).Methods(http.MethodGet)

	r.HandleFunc(device.PathTimezones, func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, zoneList())
	}).Methods(http.MethodGet)

	r.HandleFunc(device.PathDebug, func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, c.DebugLog())
	}).Methods(http.MethodGet)

	r.HandleFunc(device.PathConfig, func(w http.ResponseWriter, r *http.Request) {
		var cfg device.CityConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := c.Configure(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"success": true})
	}).Methods(http.MethodPost)

	r.HandleFunc(device.PathDebugLevel, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Level *int `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Level == nil {
			http.Error(w, "Missing level field", http.StatusBadRequest)
			return
		}
		if err := c.SetDebugLevel(*req.Level); err != nil {
			http.Error(w, "Invalid level (0-4)", http.StatusBadRequest)
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"success": true, "debugLevel": *req.Level})
	}).Methods(http.MethodPost)

	r.HandleFunc(device.PathReboot, func(w http.ResponseWriter, r *http.Request) {
		c.logf("INFO", "reboot requested")
		writeSimText(w, "Rebooting device...")
	}).Methods(http.MethodPost)

	r.HandleFunc(device.PathResetWiFi, func(w http.ResponseWriter, r *http.Request) {
		c.logf("INFO", "wifi reset requested")
		writeSimText(w, "WiFi reset. Rebooting...")
	}).Methods(http.MethodPost)

	sim := r.PathPrefix("/sim").Subrouter()
	sim.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		c.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodPost)

	sim.HandleFunc("/mode/{mode:portrait|landscape}", func(w http.ResponseWriter, r *http.Request) {
		mode := mux.Vars(r)["mode"]
		c.SetLandscape(mode == "landscape")
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "mode": mode})
	}).Methods(http.MethodPost)

	sim.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, c.Faults())
	}).Methods(http.MethodGet)

	sim.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Fail      *bool `json:"fail"`
			Malformed *bool `json:"malformed"`
			DelayMS   *int  `json:"delayMs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		current := c.Faults()
		if patch.Fail != nil {
			current.Fail = *patch.Fail
		}
		if patch.Malformed != nil {
			current.Malformed = *patch.Malformed
		}
		if patch.DelayMS != nil {
			if *patch.DelayMS < 0 {
				writeSimError(w, http.StatusBadRequest, "delayMs must not be negative")
				return
			}
			current.DelayMS = *patch.DelayMS
		}
		c.SetFaults(current)
		writeSimJSON(w, http.StatusOK, current)
	}).Methods(http.MethodPost)

	return r
}

// Snapshots encode through the state package so the wire format matches
// what the mirror decodes.
func writeSimJSON(w http.ResponseWriter, status int, v any) {
	var (
		data []byte
		err  error
	)
	if snap, ok := v.(state.Snapshot); ok {
		data, err = state.EncodeSnapshot(snap)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeSimText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, msg)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
