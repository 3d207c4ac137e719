package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete mirror configuration
type Config struct {
	Device      DeviceConfig      `yaml:"device"`
	Poll        PollConfig        `yaml:"poll"`
	Render      RenderConfig      `yaml:"render"`
	Console     ConsoleConfig     `yaml:"console"`
	Framebuffer FramebufferConfig `yaml:"framebuffer"`
	Terminal    TerminalConfig    `yaml:"terminal"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DeviceConfig locates the clock
type DeviceConfig struct {
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type PollConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

type RenderConfig struct {
	Scale            float64 `yaml:"scale"`
	PresentUnchanged bool    `yaml:"present_unchanged"`
}

// ConsoleConfig contains the web console settings
type ConsoleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Dev       bool   `yaml:"dev"`
	StaticDir string `yaml:"static_dir"`
	PublicURL string `yaml:"public_url"`
}

type FramebufferConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Device       string `yaml:"device"`
	GraphicsMode bool   `yaml:"graphics_mode"`
}

type TerminalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MQTTConfig contains frame event publishing settings
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      int    `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	File  string `yaml:"file"`
}

const (
	minIntervalMS = 250
	minScale      = 0.5
	maxScale      = 4.0
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Device:      DeviceConfig{TimeoutMS: 3000},
		Poll:        PollConfig{IntervalMS: 2000},
		Render:      RenderConfig{Scale: 1.0},
		Console:     ConsoleConfig{Enabled: true, Listen: ":8080"},
		Framebuffer: FramebufferConfig{Device: "/dev/fb0", GraphicsMode: true},
		MQTT:        MQTTConfig{Port: 1883, Topic: "clockmirror/frame", ClientID: "clockmirror"},
		Logging:     LoggingConfig{File: "clockmirror-debug.log"},
	}
}

// Load loads configuration from a YAML file. Keys absent from the file keep
// their Default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &cfg, nil
}

// Validate checks ranges. An empty device URL is allowed here because it
// may still come from the environment or a flag.
func (c *Config) Validate() error {
	if c.Device.TimeoutMS <= 0 {
		return fmt.Errorf("device.timeout_ms must be positive (got %d)", c.Device.TimeoutMS)
	}
	if c.Poll.IntervalMS < minIntervalMS {
		return fmt.Errorf("poll.interval_ms must be at least %d (got %d)", minIntervalMS, c.Poll.IntervalMS)
	}
	if c.Render.Scale < minScale || c.Render.Scale > maxScale {
		return fmt.Errorf("render.scale must be between %.1f and %.1f (got %v)", minScale, maxScale, c.Render.Scale)
	}
	if c.Console.Enabled && c.Console.Listen == "" {
		return fmt.Errorf("console.listen is required when the console is enabled")
	}
	if c.Framebuffer.Enabled && c.Framebuffer.Device == "" {
		return fmt.Errorf("framebuffer.device is required when the framebuffer is enabled")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required when mqtt is enabled")
		}
		if c.MQTT.Port <= 0 || c.MQTT.Port > 65535 {
			return fmt.Errorf("mqtt.port out of range (got %d)", c.MQTT.Port)
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2 (got %d)", c.MQTT.QoS)
		}
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Device.TimeoutMS) * time.Millisecond
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// Print displays the configuration
func (c *Config) Print(w io.Writer) {
	device := c.Device.URL
	if device == "" {
		device = "(unset)"
	}
	fmt.Fprintf(w, "Device: %s (timeout %s)\n", device, c.Timeout())
	fmt.Fprintf(w, "Poll: every %s\n", c.Interval())
	fmt.Fprintf(w, "Render: scale %.2f\n", c.Render.Scale)
	if c.Console.Enabled {
		fmt.Fprintf(w, "Console: %s (dev=%v)\n", c.Console.Listen, c.Console.Dev)
	}
	if c.Framebuffer.Enabled {
		fmt.Fprintf(w, "Framebuffer: %s\n", c.Framebuffer.Device)
	}
	if c.Terminal.Enabled {
		fmt.Fprintln(w, "Terminal: enabled")
	}
	if c.MQTT.Enabled {
		fmt.Fprintf(w, "MQTT: %s:%d (topic: %s)\n", c.MQTT.Broker, c.MQTT.Port, c.MQTT.Topic)
	}
}
