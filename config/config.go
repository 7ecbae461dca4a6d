// Package config loads the wlanmon YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"wlanmon/packet"
)

// ErrInvalid marks configuration values that decoded but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

const (
	// FullPacketMask accepts every packet type (24 type bits).
	FullPacketMask uint32 = 0xffffff

	defaultIntervalMicros = 100000
	defaultLogLines       = 500
	defaultHistorySize    = 4096
	defaultRetentionDays  = 7
	defaultLogDir         = "data/logs"
	defaultInterface      = "wlan0"
	defaultRecorderPath   = "data/records/packets.db"
	defaultRecorderLimit  = 1000
)

// Config represents the complete monitor configuration.
type Config struct {
	Capture  CaptureConfig  `yaml:"capture"`
	Filter   FilterConfig   `yaml:"filter"`
	Display  DisplayConfig  `yaml:"display"`
	Replay   ReplayConfig   `yaml:"replay"`
	Logging  LoggingConfig  `yaml:"logging"`
	Recorder RecorderConfig `yaml:"recorder"`

	// Paused is runtime state toggled from the keyboard; never loaded.
	Paused bool `yaml:"-"`
	// LoadedFrom is the file or directory the config was read from.
	LoadedFrom string `yaml:"-"`
}

// CaptureConfig describes the monitored interface and its channel list.
type CaptureConfig struct {
	Interface            string `yaml:"interface"`
	Channels             []int  `yaml:"channels"`
	CurrentChannelIndex  int    `yaml:"current_channel_index"`
	ChangeChannelOnStart bool   `yaml:"change_channel_on_start"`
}

// FilterConfig holds the capture filter shown in the status line.
type FilterConfig struct {
	Off        bool     `yaml:"off"`
	MACFilter  bool     `yaml:"mac_filter"`
	MACs       []string `yaml:"macs"`
	PacketMask uint32   `yaml:"packet_mask"`
}

// DisplayConfig controls redraw pacing and on-screen buffers.
type DisplayConfig struct {
	// IntervalMicros is the minimum spacing of full redraws inside one second.
	IntervalMicros int `yaml:"interval_us"`
	LogLines       int `yaml:"log_lines"`
	HistorySize    int `yaml:"history_size"`
}

// ReplayConfig selects a recorded JSON-lines capture instead of the
// synthetic generator.
type ReplayConfig struct {
	File     string  `yaml:"file"`
	Realtime bool    `yaml:"realtime"`
	Speed    float64 `yaml:"speed"`
	Follow   bool    `yaml:"follow"`
}

// LoggingConfig controls the daily log file used while the UI owns the terminal.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// RecorderConfig controls the SQLite packet sample database.
type RecorderConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Path         string `yaml:"path"`
	PerTypeLimit int    `yaml:"per_type_limit"`
}

// Interval returns the redraw interval as a duration.
func (d DisplayConfig) Interval() time.Duration {
	return time.Duration(d.IntervalMicros) * time.Microsecond
}

// FilterActive reports whether any capture filter narrows the stream.
func (c *Config) FilterActive() bool {
	if c == nil || c.Filter.Off {
		return false
	}
	return c.Filter.MACFilter || c.Filter.PacketMask != FullPacketMask
}

// CurrentChannel returns the channel number at the current index, or 0 when
// no channel list is configured.
func (c *Config) CurrentChannel() int {
	if c == nil || c.Capture.CurrentChannelIndex < 0 || c.Capture.CurrentChannelIndex >= len(c.Capture.Channels) {
		return 0
	}
	return c.Capture.Channels[c.Capture.CurrentChannelIndex]
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(map[string]any{})
	return cfg
}

// Load reads configuration from a YAML file or from a directory of YAML
// files. Directory entries are merged in lexical order; later files override
// keys set by earlier ones.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	var files []string
	if info.IsDir() {
		files, err = yamlFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no YAML files in %s: %w", path, os.ErrNotExist)
		}
	} else {
		files = []string{path}
	}

	merged := map[string]any{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filepath.Base(file), err)
		}
		mergeMaps(merged, doc)
	}

	data, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode merged config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode merged config: %w", err)
	}
	cfg.applyDefaults(merged)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.LoadedFrom = path
	return &cfg, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// mergeMaps deep-merges src into dst. Nested maps merge key by key; any
// other value in src replaces the one in dst.
func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeMaps(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
}

// hasKey reports whether a dotted path was present in the raw documents, so
// explicit zero values survive defaulting.
func hasKey(raw map[string]any, path ...string) bool {
	cur := raw
	for i, key := range path {
		value, ok := cur[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

func (c *Config) applyDefaults(raw map[string]any) {
	if strings.TrimSpace(c.Capture.Interface) == "" {
		c.Capture.Interface = defaultInterface
	}
	if len(c.Capture.Channels) == 0 {
		c.Capture.Channels = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
	}
	if !hasKey(raw, "filter", "packet_mask") {
		c.Filter.PacketMask = FullPacketMask
	}
	if !hasKey(raw, "display", "interval_us") {
		c.Display.IntervalMicros = defaultIntervalMicros
	}
	if c.Display.LogLines <= 0 {
		c.Display.LogLines = defaultLogLines
	}
	if c.Display.HistorySize <= 0 {
		c.Display.HistorySize = defaultHistorySize
	}
	if c.Replay.Speed <= 0 {
		c.Replay.Speed = 1
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultRetentionDays
	}
	if strings.TrimSpace(c.Recorder.Path) == "" {
		c.Recorder.Path = defaultRecorderPath
	}
	if c.Recorder.PerTypeLimit <= 0 {
		c.Recorder.PerTypeLimit = defaultRecorderLimit
	}
}

func (c *Config) validate() error {
	if c.Filter.PacketMask&^FullPacketMask != 0 {
		return fmt.Errorf("filter.packet_mask %#x exceeds 24 bits: %w", c.Filter.PacketMask, ErrInvalid)
	}
	if c.Capture.CurrentChannelIndex < 0 || c.Capture.CurrentChannelIndex >= len(c.Capture.Channels) {
		return fmt.Errorf("capture.current_channel_index %d out of range [0,%d): %w",
			c.Capture.CurrentChannelIndex, len(c.Capture.Channels), ErrInvalid)
	}
	for _, ch := range c.Capture.Channels {
		if ch <= 0 {
			return fmt.Errorf("capture.channels contains %d: %w", ch, ErrInvalid)
		}
	}
	for _, mac := range c.Filter.MACs {
		if _, err := packet.ParseMAC(mac); err != nil {
			return fmt.Errorf("filter.macs: %v: %w", err, ErrInvalid)
		}
	}
	if c.Display.IntervalMicros < 0 || c.Display.IntervalMicros > 1000000 {
		return fmt.Errorf("display.interval_us %d must be within [0,1000000]: %w", c.Display.IntervalMicros, ErrInvalid)
	}
	return nil
}

// Print displays the configuration
func (c *Config) Print() {
	fmt.Printf("Interface: %s (channel %d of %d)\n", c.Capture.Interface, c.CurrentChannel(), len(c.Capture.Channels))
	if c.FilterActive() {
		fmt.Printf("Filter: mask=%#06x mac_filter=%t (%d MACs)\n", c.Filter.PacketMask, c.Filter.MACFilter, len(c.Filter.MACs))
	} else {
		fmt.Printf("Filter: off\n")
	}
	fmt.Printf("Display: interval=%s log_lines=%s history=%s\n",
		c.Display.Interval(), humanize.Comma(int64(c.Display.LogLines)), humanize.Comma(int64(c.Display.HistorySize)))
	if c.Replay.File != "" {
		fmt.Printf("Replay: %s (realtime=%t speed=%.1fx follow=%t)\n", c.Replay.File, c.Replay.Realtime, c.Replay.Speed, c.Replay.Follow)
	} else {
		fmt.Printf("Replay: synthetic generator\n")
	}
	if c.Logging.Enabled {
		fmt.Printf("Logging: %s (retention %d days)\n", c.Logging.Dir, c.Logging.RetentionDays)
	}
	if c.Recorder.Enabled {
		fmt.Printf("Recorder: %s (%s packets per type)\n", c.Recorder.Path, humanize.Comma(int64(c.Recorder.PerTypeLimit)))
	}
}
