package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "CLOCKMIRROR_LISTEN"
	EnvDevMode    = "CLOCKMIRROR_DEV"
	EnvDeviceAddr = "CLOCKMIRROR_DEVICE"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - mirror console: :8080
// - simulator:      :8081
type ServerConfig struct {
	ListenAddr string
	DevMode    bool

	// DeviceAddr is the clock the console mirrors and proxies to.
	DeviceAddr string
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode, DeviceAddr: os.Getenv(EnvDeviceAddr)}, nil
}
