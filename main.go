package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/rook-computer/clockmirror/internal/app"
	"github.com/rook-computer/clockmirror/internal/config"
	"github.com/rook-computer/clockmirror/internal/device"
	"github.com/rook-computer/clockmirror/internal/publish"
	"github.com/rook-computer/clockmirror/internal/render"
	"github.com/rook-computer/clockmirror/internal/state"
	"github.com/rook-computer/clockmirror/internal/tui"
	"github.com/rook-computer/clockmirror/internal/web"
)

const usage = `usage: clockmirror [flags] [command] [args]

commands:
  mirror                    mirror the clock display (default)
  status                    print device state
  timezones                 list the device's timezones
  set-cities HOME [REMOTE]  set home and up to 5 remote cities by name
  debug-level [LEVEL]       show or set the device debug level
  logs                      print the device's recent log
  reboot                    reboot the device
  reset-wifi                clear WiFi credentials and reboot
  screenshot [-o FILE]      render one frame to PNG or PPM

flags:
`

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	deviceURL := flag.String("device", "", "clock address, e.g. http://worldclock.local; also CLOCKMIRROR_DEVICE")
	scale := flag.Float64("scale", 0, "mirror scale factor (0.5 to 4)")
	interval := flag.Duration("interval", 0, "poll interval")
	debug := flag.Bool("debug", false, "enable debug logging to ./clockmirror-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via CLOCKMIRROR_STDIO_LOG")
	listen := flag.String("listen", "", "console listen address; also CLOCKMIRROR_LISTEN")
	dev := flag.Bool("dev", false, "enable permissive CORS for UI development; also CLOCKMIRROR_DEV")
	staticDir := flag.String("static-dir", "", "serve the console UI from this directory instead of the embedded one")
	noConsole := flag.Bool("no-console", false, "disable the web console")
	fbDevice := flag.String("fb", "", "mirror to this framebuffer device, e.g. /dev/fb0")
	useTUI := flag.Bool("tui", false, "mirror in the terminal")
	mqttBroker := flag.String("mqtt", "", "publish frame events to this MQTT broker host")
	mqttTopic := flag.String("mqtt-topic", "", "MQTT topic for frame events")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("CLOCKMIRROR_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = *loaded
	}
	if err := applyEnv(&cfg); err != nil {
		fatal(err)
	}

	// Flags win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device.URL = *deviceURL
		case "scale":
			cfg.Render.Scale = *scale
		case "interval":
			cfg.Poll.IntervalMS = int(*interval / time.Millisecond)
		case "debug":
			cfg.Logging.Debug = *debug
		case "listen":
			cfg.Console.Listen = *listen
		case "dev":
			cfg.Console.Dev = *dev
		case "static-dir":
			cfg.Console.StaticDir = *staticDir
		case "no-console":
			cfg.Console.Enabled = !*noConsole
		case "fb":
			cfg.Framebuffer.Enabled = true
			cfg.Framebuffer.Device = *fbDevice
		case "tui":
			cfg.Terminal.Enabled = *useTUI
		case "mqtt":
			cfg.MQTT.Enabled = true
			cfg.MQTT.Broker = *mqttBroker
		case "mqtt-topic":
			cfg.MQTT.Topic = *mqttTopic
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if *printConfig {
		cfg.Print(os.Stdout)
		return
	}
	if cfg.Device.URL == "" {
		fatal(errors.New("no device address: use -device, CLOCKMIRROR_DEVICE or device.url"))
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if cfg.Logging.Debug {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	client, err := device.NewClient(cfg.Device.URL, cfg.Timeout())
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := "mirror", flag.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd == "mirror" {
		err = runMirror(ctx, cfg, client, logger)
	} else {
		err = runCommand(ctx, cmd, args, cfg, client)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func applyEnv(cfg *config.Config) error {
	env, err := web.DefaultServerConfigFromEnv(cfg.Console.Listen)
	if err != nil {
		return err
	}
	cfg.Console.Listen = env.ListenAddr
	if env.DevMode {
		cfg.Console.Dev = true
	}
	if env.DeviceAddr != "" {
		cfg.Device.URL = env.DeviceAddr
	}
	return nil
}

func runMirror(ctx context.Context, cfg config.Config, client *device.Client, logger app.Logger) error {
	store := state.NewStore()
	frames := web.NewFrameHolder()
	outputs := []app.Output{frames}

	var a *app.App
	if cfg.Framebuffer.Enabled {
		fbOut := render.NewFBOutput(cfg.Framebuffer.Device)
		fbOut.Logger = logger
		outputs = append(outputs, fbOut)
	}
	if cfg.Terminal.Enabled {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("terminal mirror needs a terminal on stdout")
		}
		t := tui.NewTerminal(nil)
		t.OnQuit = func() { a.Exit(nil) }
		t.OnRefresh = func() { a.Refresh() }
		outputs = append(outputs, t)
	}
	if cfg.MQTT.Enabled {
		pub := publish.NewMQTTOutput(publish.Options{
			Broker:   cfg.MQTT.Broker,
			Port:     cfg.MQTT.Port,
			Topic:    cfg.MQTT.Topic,
			ClientID: cfg.MQTT.ClientID,
			QoS:      byte(cfg.MQTT.QoS),
			Retain:   cfg.MQTT.Retain,
		})
		pub.Logger = logger
		outputs = append(outputs, pub)
	}

	mirror := app.NewMirror(cfg.Render.Scale, store, outputs...)
	mirror.PresentUnchanged = cfg.Render.PresentUnchanged

	var server web.Server = &web.NoopServer{}
	if cfg.Console.Enabled {
		httpServer := web.NewHTTPServer(web.ServerConfig{
			ListenAddr: cfg.Console.Listen,
			DevMode:    cfg.Console.Dev,
			DeviceAddr: client.BaseURL(),
		})
		httpServer.StaticDir = cfg.Console.StaticDir
		httpServer.Logger = logger
		httpServer.Deps = web.APIV1Deps{
			Frames:       frames,
			Status:       store,
			Device:       client,
			DeviceAddr:   client.BaseURL(),
			ConsoleURL:   consoleURL(cfg.Console.PublicURL, cfg.Console.Listen),
			PollInterval: cfg.Interval(),
		}
		server = httpServer
	}

	a = app.New(store, client, mirror, server)
	a.Logger = logger
	a.Interval = cfg.Interval()
	a.DeviceAddr = client.BaseURL()
	a.GraphicsMode = cfg.Framebuffer.Enabled && cfg.Framebuffer.GraphicsMode && !cfg.Terminal.Enabled

	if !cfg.Terminal.Enabled {
		fmt.Printf("clockmirror: mirroring %s every %s\n", client.BaseURL(), cfg.Interval())
		if cfg.Console.Enabled {
			fmt.Printf("clockmirror: console at %s\n", consoleURL(cfg.Console.PublicURL, cfg.Console.Listen))
		}
	}
	return a.Start(ctx)
}

// consoleURL is the address operators should open, used for the QR code.
// An explicit public URL wins; otherwise the hostname and listen port are used.
func consoleURL(public, listen string) string {
	if public != "" {
		return strings.TrimRight(public, "/") + "/"
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		name, err := os.Hostname()
		if err != nil || name == "" {
			name = "localhost"
		}
		host = name
	}
	if port == "80" {
		return "http://" + host + "/"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "clockmirror:", err)
	os.Exit(1)
}
