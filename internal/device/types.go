package device

// City is a configured city as the device stores it: a display label and
// a POSIX TZ rule.
type City struct {
	Label string `json:"label"`
	TZ    string `json:"tz"`
}

// State is the device health and configuration report.
type State struct {
	Firmware     string `json:"firmware"`
	Hostname     string `json:"hostname"`
	Uptime       int64  `json:"uptime"`
	FreeHeap     int64  `json:"freeHeap"`
	DebugLevel   int    `json:"debugLevel"`
	WiFiSSID     string `json:"wifi_ssid"`
	WiFiIP       string `json:"wifi_ip"`
	WiFiRSSI     int    `json:"wifi_rssi"`
	HomeCity     City   `json:"homeCity"`
	RemoteCities []City `json:"remoteCities"`
}

// Timezone is one selectable entry, e.g. {"Sydney, Australia", "AEST-10AEDT,..."}.
type Timezone struct {
	Name string `json:"name"`
	TZ   string `json:"tz"`
}

type LogEntry struct {
	Timestamp int64  `json:"t"`
	Level     string `json:"l"`
	Message   string `json:"m"`
}

// DebugLog is the device's recent log ring, oldest first.
type DebugLog struct {
	LogCount int        `json:"logCount"`
	Logs     []LogEntry `json:"logs"`
}

// CityConfig replaces the configured cities.
type CityConfig struct {
	HomeCity     City   `json:"homeCity"`
	RemoteCities []City `json:"remoteCities"`
}

// Debug levels accepted by SetDebugLevel.
const (
	DebugOff = iota
	DebugError
	DebugWarn
	DebugInfo
	DebugVerbose
)

type debugLevelRequest struct {
	Level int `json:"level"`
}

type debugLevelResponse struct {
	Success    bool `json:"success"`
	DebugLevel int  `json:"debugLevel"`
}
