package main

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/rook-computer/clockmirror/internal/device"
)

// simZone pairs a device timezone entry with the IANA zone the simulator
// computes local time from.
type simZone struct {
	device.Timezone
	IANA string
}

var simZones = []simZone{
	{device.Timezone{Name: "Vancouver, Canada", TZ: "PST8PDT,M3.2.0/2,M11.1.0/2"}, "America/Vancouver"},
	{device.Timezone{Name: "Denver, USA", TZ: "MST7MDT,M3.2.0/2,M11.1.0/2"}, "America/Denver"},
	{device.Timezone{Name: "New York, USA", TZ: "EST5EDT,M3.2.0,M11.1.0"}, "America/New_York"},
	{device.Timezone{Name: "Honolulu, USA", TZ: "HST10"}, "Pacific/Honolulu"},
	{device.Timezone{Name: "London, UK", TZ: "GMT0BST,M3.5.0/1,M10.5.0/2"}, "Europe/London"},
	{device.Timezone{Name: "Paris, France", TZ: "CET-1CEST,M3.5.0,M10.5.0/3"}, "Europe/Paris"},
	{device.Timezone{Name: "Nairobi, Kenya", TZ: "EAT-3"}, "Africa/Nairobi"},
	{device.Timezone{Name: "Dubai, UAE", TZ: "<+04>-4"}, "Asia/Dubai"},
	{device.Timezone{Name: "Kolkata, India", TZ: "IST-5:30"}, "Asia/Kolkata"},
	{device.Timezone{Name: "Tokyo, Japan", TZ: "JST-9"}, "Asia/Tokyo"},
	{device.Timezone{Name: "Sydney, Australia", TZ: "AEST-10AEDT,M10.1.0/2,M4.1.0/3"}, "Australia/Sydney"},
	{device.Timezone{Name: "Auckland, New Zealand", TZ: "NZST-12NZDT,M9.5.0,M4.1.0/3"}, "Pacific/Auckland"},
}

func zoneList() []device.Timezone {
	out := make([]device.Timezone, len(simZones))
	for i, z := range simZones {
		out[i] = z.Timezone
	}
	return out
}

// locationFor maps a POSIX rule from the zone table to its IANA location.
// A bare IANA name is accepted too, so custom cities can be simulated.
func locationFor(tz string) (*time.Location, error) {
	for _, z := range simZones {
		if z.TZ == tz {
			return time.LoadLocation(z.IANA)
		}
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", tz)
	}
	return loc, nil
}
