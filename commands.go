package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/rook-computer/clockmirror/internal/app"
	"github.com/rook-computer/clockmirror/internal/config"
	"github.com/rook-computer/clockmirror/internal/device"
	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
	"github.com/rook-computer/clockmirror/internal/tzmatch"
)

var levelNames = []string{"off", "error", "warn", "info", "verbose"}

func runCommand(ctx context.Context, cmd string, args []string, cfg config.Config, client *device.Client) error {
	out := os.Stdout
	switch cmd {
	case "status":
		st, err := client.State(ctx)
		if err != nil {
			return err
		}
		printState(out, st, time.Now())
		return nil

	case "timezones":
		zones, err := client.Timezones(ctx)
		if err != nil {
			return err
		}
		for _, z := range zones {
			fmt.Fprintf(out, "%-32s %s\n", z.Name, z.TZ)
		}
		return nil

	case "set-cities":
		return setCities(ctx, out, client, args)

	case "debug-level":
		if len(args) == 0 {
			st, err := client.State(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "debug level: %s\n", levelName(st.DebugLevel))
			return nil
		}
		level, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		confirmed, err := client.SetDebugLevel(ctx, level)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "debug level set to %s\n", levelName(confirmed))
		return nil

	case "logs":
		logs, err := client.Debug(ctx)
		if err != nil {
			return err
		}
		width := 0
		if term.IsTerminal(int(out.Fd())) {
			if w, _, err := term.GetSize(int(out.Fd())); err == nil {
				width = w
			}
		}
		printLogs(out, logs, width)
		return nil

	case "reboot":
		msg, err := client.Reboot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, orDefault(msg, "rebooting"))
		return nil

	case "reset-wifi":
		msg, err := client.ResetWiFi(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, orDefault(msg, "WiFi settings cleared, rebooting"))
		return nil

	case "screenshot":
		return screenshot(ctx, out, cfg, client, args)

	default:
		return fmt.Errorf("unknown command %q (see -h)", cmd)
	}
}

func printState(w io.Writer, st device.State, now time.Time) {
	booted := now.Add(-time.Duration(st.Uptime) * time.Second)
	fmt.Fprintf(w, "Host:      %s (firmware %s)\n", st.Hostname, st.Firmware)
	fmt.Fprintf(w, "Up:        since %s\n", humanize.RelTime(booted, now, "ago", "from now"))
	fmt.Fprintf(w, "Free heap: %s\n", humanize.IBytes(uint64(max(st.FreeHeap, 0))))
	fmt.Fprintf(w, "WiFi:      %s %s (%d dBm)\n", st.WiFiSSID, st.WiFiIP, st.WiFiRSSI)
	fmt.Fprintf(w, "Debug:     %s\n", levelName(st.DebugLevel))
	fmt.Fprintf(w, "Home:      %s  %s\n", st.HomeCity.Label, st.HomeCity.TZ)
	for i, c := range st.RemoteCities {
		fmt.Fprintf(w, "Remote %d:  %s  %s\n", i+1, c.Label, c.TZ)
	}
}

func printLogs(w io.Writer, logs device.DebugLog, width int) {
	for _, e := range logs.Logs {
		line := fmt.Sprintf("%10d [%s] %s", e.Timestamp, strings.ToUpper(e.Level), e.Message)
		if width > 0 && len(line) > width {
			line = line[:width]
		}
		fmt.Fprintln(w, line)
	}
	if len(logs.Logs) == 0 {
		fmt.Fprintln(w, "(no log entries)")
	}
}

func setCities(ctx context.Context, w io.Writer, client *device.Client, args []string) error {
	fs := flag.NewFlagSet("set-cities", flag.ContinueOnError)
	dryRun := fs.Bool("n", false, "resolve names but do not send")
	if err := fs.Parse(args); err != nil {
		return err
	}
	names := fs.Args()
	if len(names) == 0 || len(names) > 1+state.RemoteSlots {
		return fmt.Errorf("set-cities needs a home city and up to %d remote cities", state.RemoteSlots)
	}

	zones, err := client.Timezones(ctx)
	if err != nil {
		return err
	}
	results, err := tzmatch.ResolveAll(zones, names)
	if err != nil {
		return err
	}
	for i, r := range results {
		role := "home"
		if i > 0 {
			role = "remote " + strconv.Itoa(i)
		}
		fmt.Fprintf(w, "%-9s %-20s %-40s (%s)\n", role, r.City.Label, r.City.TZ, r.Kind)
	}
	if *dryRun {
		return nil
	}

	cfg := device.CityConfig{HomeCity: results[0].City}
	for _, r := range results[1:] {
		cfg.RemoteCities = append(cfg.RemoteCities, r.City)
	}
	if err := client.PostConfig(ctx, cfg); err != nil {
		return err
	}
	fmt.Fprintln(w, "configuration saved")
	return nil
}

func screenshot(ctx context.Context, w io.Writer, cfg config.Config, client *device.Client, args []string) error {
	fs := flag.NewFlagSet("screenshot", flag.ContinueOnError)
	outPath := fs.String("o", "clockmirror.png", "output file; .ppm writes a binary PPM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := client.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	mirror := app.NewMirror(cfg.Render.Scale, nil)
	if err := mirror.Render(snap); err != nil {
		return err
	}
	frame := mirror.Latest()
	if frame == nil || frame.Image == nil {
		return fmt.Errorf("no frame rendered")
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(*outPath), ".ppm") {
		err = render.EncodePPM(f, frame.Image)
	} else {
		err = png.Encode(f, frame.Image)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	b := frame.Image.Bounds()
	fmt.Fprintf(w, "wrote %s (%dx%d)\n", *outPath, b.Dx(), b.Dy())
	return nil
}

func parseLevel(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < device.DebugOff || n > device.DebugVerbose {
			return 0, fmt.Errorf("debug level %d out of range 0-4", n)
		}
		return n, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown debug level %q (want 0-4 or %s)", s, strings.Join(levelNames, ", "))
}

func levelName(level int) string {
	if level < 0 || level >= len(levelNames) {
		return strconv.Itoa(level)
	}
	return levelNames[level]
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
