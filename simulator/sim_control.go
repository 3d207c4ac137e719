package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rook-computer/clockmirror/internal/device"
	"github.com/rook-computer/clockmirror/internal/state"
)

// SimFaults makes the display endpoint misbehave on demand.
type SimFaults struct {
	Fail      bool `json:"fail"`
	Malformed bool `json:"malformed"`
	DelayMS   int  `json:"delayMs"`
}

const logRingSize = 50

// SimControl is the simulated clock: its configured cities, settings,
// log ring and injected faults.
type SimControl struct {
	Now     func() time.Time
	started time.Time

	mu         sync.RWMutex
	home       device.City
	remote     []device.City
	debugLevel int
	landscape  bool
	faults     SimFaults
	logs       []device.LogEntry
}

func defaultCities() (device.City, []device.City) {
	home := device.City{Label: "SYDNEY", TZ: "AEST-10AEDT,M10.1.0/2,M4.1.0/3"}
	remote := []device.City{
		{Label: "VANCOUVER", TZ: "PST8PDT,M3.2.0/2,M11.1.0/2"},
		{Label: "LONDON", TZ: "GMT0BST,M3.5.0/1,M10.5.0/2"},
		{Label: "NAIROBI", TZ: "EAT-3"},
		{Label: "DENVER", TZ: "MST7MDT,M3.2.0/2,M11.1.0/2"},
		{Label: "TOKYO", TZ: "JST-9"},
	}
	return home, remote
}

func NewSimControl(landscape bool) *SimControl {
	c := &SimControl{Now: time.Now, started: time.Now(), debugLevel: device.DebugInfo}
	c.home, c.remote = defaultCities()
	c.landscape = landscape
	c.logf("INFO", "simulator started")
	return c
}

// Reset restores the default cities and clears faults.
func (c *SimControl) Reset() {
	c.mu.Lock()
	c.home, c.remote = defaultCities()
	c.faults = SimFaults{}
	c.mu.Unlock()
	c.logf("INFO", "simulator reset")
}

func (c *SimControl) Faults() SimFaults {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.faults
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.mu.Lock()
	c.faults = v
	c.mu.Unlock()
}

func (c *SimControl) SetLandscape(on bool) {
	c.mu.Lock()
	c.landscape = on
	c.mu.Unlock()
	c.logf("INFO", "landscape mode %v", on)
}

func (c *SimControl) State() device.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return device.State{
		Firmware:     "sim-1.0",
		Hostname:     "worldclock-sim",
		Uptime:       int64(c.Now().Sub(c.started) / time.Second),
		FreeHeap:     180 * 1024,
		DebugLevel:   c.debugLevel,
		WiFiSSID:     "simulated",
		WiFiIP:       "127.0.0.1",
		WiFiRSSI:     -52,
		HomeCity:     c.home,
		RemoteCities: append([]device.City(nil), c.remote...),
	}
}

// Configure replaces the cities. Labels lose any ", Country" suffix the
// same way the firmware strips them.
func (c *SimControl) Configure(cfg device.CityConfig) error {
	if len(cfg.RemoteCities) > state.RemoteSlots {
		return fmt.Errorf("at most %d remote cities", state.RemoteSlots)
	}
	all := append([]device.City{cfg.HomeCity}, cfg.RemoteCities...)
	for i := range all {
		if _, err := locationFor(all[i].TZ); err != nil {
			return err
		}
		all[i].Label = cityOnly(all[i].Label)
	}
	c.mu.Lock()
	c.home, c.remote = all[0], all[1:]
	c.mu.Unlock()
	c.logf("INFO", "config updated: home %s, %d remote", all[0].Label, len(all)-1)
	return nil
}

func (c *SimControl) SetDebugLevel(level int) error {
	if level < device.DebugOff || level > device.DebugVerbose {
		return fmt.Errorf("invalid level (0-4)")
	}
	c.mu.Lock()
	c.debugLevel = level
	c.mu.Unlock()
	c.logf("INFO", "debug level set to %d", level)
	return nil
}

func (c *SimControl) DebugLog() device.DebugLog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	logs := append([]device.LogEntry(nil), c.logs...)
	return device.DebugLog{LogCount: len(logs), Logs: logs}
}

// Snapshot computes what the clock would show at the current time.
// Day markers compare calendar dates with the home city.
func (c *SimControl) Snapshot() (state.Snapshot, error) {
	c.mu.RLock()
	home, remote, landscape := c.home, append([]device.City(nil), c.remote...), c.landscape
	c.mu.RUnlock()

	now := c.Now()
	homeLoc, err := locationFor(home.TZ)
	if err != nil {
		return state.Snapshot{}, err
	}
	homeNow := now.In(homeLoc)
	snap := state.Snapshot{
		Date:          strings.ToUpper(homeNow.Format("Mon 02 Jan")),
		LandscapeMode: landscape,
		Home:          state.CityTime{Label: home.Label, Time: homeNow.Format("15:04")},
		Clock:         &state.ClockTime{Hour: homeNow.Hour(), Minute: homeNow.Minute(), Second: homeNow.Second()},
	}
	for _, city := range remote {
		loc, err := locationFor(city.TZ)
		if err != nil {
			return state.Snapshot{}, err
		}
		local := now.In(loc)
		cmp := compareDays(local, homeNow)
		snap.Remote = append(snap.Remote, state.CityTime{
			Label:   city.Label,
			Time:    local.Format("15:04"),
			PrevDay: cmp < 0,
			NextDay: cmp > 0,
		})
	}
	return snap, nil
}

func compareDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return da.Compare(db)
}

func cityOnly(label string) string {
	if i := strings.IndexByte(label, ','); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}

func (c *SimControl) logf(level, format string, args ...interface{}) {
	entry := device.LogEntry{
		Timestamp: int64(time.Since(c.started) / time.Millisecond),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	}
	c.mu.Lock()
	c.logs = append(c.logs, entry)
	if len(c.logs) > logRingSize {
		c.logs = c.logs[len(c.logs)-logRingSize:]
	}
	c.mu.Unlock()
}
