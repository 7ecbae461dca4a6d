// Program wlanmon wires a packet source (JSON-lines replay or the synthetic
// generator), the aggregate tables and the text dashboard together. Without
// an interactive terminal it runs headless and logs periodic statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"wlanmon/aggregate"
	"wlanmon/config"
	"wlanmon/filter"
	"wlanmon/packet"
	"wlanmon/recorder"
	"wlanmon/source"
	"wlanmon/stats"
	"wlanmon/ui"
	"wlanmon/views"
)

const (
	defaultConfigPath = "data/config"
	envConfigPath     = "WLANMON_CONFIG"
	envFilterPath     = "WLANMON_FILTER"
	statsLogInterval  = 30 * time.Second
	uiLogQueue        = 256
)

// Version will be set at build time
var Version = "dev"

// Purpose: Report whether stdout is a TTY for UI gating.
// Key aspects: Uses term.IsTerminal on stdout fd.
// Upstream: main UI selection.
// Downstream: term.IsTerminal.
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Purpose: Load configuration from env/default locations.
// Key aspects: Tries env override first, then the default config dir; built-in defaults when neither exists.
// Upstream: main startup.
// Downstream: config.Load and config.Default.
func loadMonitorConfig() (*config.Config, string, error) {
	candidates := make([]string, 0, 2)
	if envPath := strings.TrimSpace(os.Getenv(envConfigPath)); envPath != "" {
		candidates = append(candidates, envPath)
	}
	candidates = append(candidates, defaultConfigPath)

	for _, path := range candidates {
		cfg, err := config.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, path, err
		}
		return cfg, cfg.LoadedFrom, nil
	}
	return config.Default(), "built-in defaults", nil
}

// Purpose: Build the packet filter from config, or from the saved filter file.
// Key aspects: WLANMON_FILTER names a YAML file that overrides the config filter when present.
// Upstream: main startup.
// Downstream: filter.FromConfig, filter.LoadFile.
func loadPacketFilter(cfg *config.Config) (*filter.Filter, string, error) {
	path := strings.TrimSpace(os.Getenv(envFilterPath))
	if path != "" {
		saved, err := filter.LoadFile(path)
		if err == nil {
			return saved, path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, path, err
		}
	}
	f, err := filter.FromConfig(cfg.Filter)
	return f, path, err
}

// packetSource is the running producer plus a one-line description for logs.
// replay marks sources whose events carry recorded capture timestamps.
type packetSource struct {
	events <-chan *packet.Event
	replay bool
	close  func()
	stats  func() string
}

// packetClock supplies the timestamp for forced refreshes. Replays stay on
// the capture timebase of the last packet (zero before the first one, which
// leaves the clock blank); generated traffic is stamped with wall time.
type packetClock struct {
	replay bool
	last   time.Time
}

// Stamp returns the display time of a packet captured at t and advances the
// clock. Packets without a timestamp reuse the last replay time.
func (c *packetClock) Stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = c.last
		if !c.replay || t.IsZero() {
			t = time.Now()
		}
	}
	c.last = t
	return t
}

func (c *packetClock) Now() time.Time {
	if c.replay {
		return c.last
	}
	return time.Now()
}

// Purpose: Start the configured packet source.
// Key aspects: A replay file wins; otherwise the synthetic generator runs.
// Upstream: main startup.
// Downstream: source.NewReplay, source.NewSynthetic.
func startSource(ctx context.Context, cfg *config.Config) (*packetSource, error) {
	if path := strings.TrimSpace(cfg.Replay.File); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open replay %s: %w", path, err)
		}
		rp := source.NewReplay(f, source.ReplayOptions{
			Realtime: cfg.Replay.Realtime,
			Speed:    cfg.Replay.Speed,
			Follow:   cfg.Replay.Follow,
		})
		log.Printf("Source: replaying %s (realtime=%t follow=%t)", path, cfg.Replay.Realtime, cfg.Replay.Follow)
		return &packetSource{
			events: rp.Start(ctx),
			replay: true,
			close:  func() { _ = f.Close() },
			stats: func() string {
				decoded, skipped := rp.Stats()
				return fmt.Sprintf("decoded %s, skipped %s", humanize.Comma(int64(decoded)), humanize.Comma(int64(skipped)))
			},
		}, nil
	}
	gen := source.NewSynthetic(source.SyntheticOptions{
		Seed:     time.Now().UnixNano(),
		Channels: cfg.Capture.Channels,
	})
	log.Printf("Source: synthetic traffic on %d channels", len(cfg.Capture.Channels))
	return &packetSource{
		events: gen.Start(ctx),
		replay: false,
		close:  func() {},
		stats: func() string {
			sent, dropped := gen.Stats()
			return fmt.Sprintf("generated %s, dropped %s", humanize.Comma(int64(sent)), humanize.Comma(int64(dropped)))
		},
	}, nil
}

// Purpose: Open the SQLite packet sampler when enabled.
// Key aspects: Failure only disables recording; nil is a valid no-op recorder.
// Upstream: main startup.
// Downstream: recorder.New.
func openRecorder(cfg config.RecorderConfig) *recorder.Recorder {
	if !cfg.Enabled {
		return nil
	}
	rec, err := recorder.New(cfg.Path, cfg.PerTypeLimit)
	if err != nil {
		log.Printf("Warning: packet recorder disabled: %v", err)
		return nil
	}
	log.Printf("Recorder: sampling up to %s packets per type into %s", humanize.Comma(int64(cfg.PerTypeLimit)), cfg.Path)
	return rec
}

// Purpose: Program entrypoint; wires configuration, source, aggregates and UI.
// Key aspects: Runs the dashboard on a TTY, headless otherwise; restores the terminal on every exit path.
// Upstream: OS process start.
// Downstream: runDashboard, runHeadless.
func main() {
	cfg, configSource, err := loadMonitorConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	pktFilter, filterPath, err := loadPacketFilter(cfg)
	if err != nil {
		log.Fatalf("Error loading filter: %v", err)
	}

	fanout, logErr := setupLogging(cfg.Logging, os.Stderr)
	log.SetFlags(0)
	log.SetOutput(fanout)
	defer fanout.Close()
	if logErr != nil {
		log.Printf("Warning: file logging disabled: %v", logErr)
	}
	log.Printf("wlanmon v%s starting, configuration from %s", Version, configSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := startSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Error starting source: %v", err)
	}
	defer src.close()

	rec := openRecorder(cfg.Recorder)
	defer rec.Close()

	store := aggregate.NewStore(cfg.Display.HistorySize)
	rates := stats.NewRateMeter(store.Stats)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if !isStdoutTTY() {
		cfg.Print()
		runHeadless(src, store, pktFilter, rec, sigChan)
		return
	}
	if err := runDashboard(cfg, src, store, rates, pktFilter, filterPath, rec, fanout, sigChan); err != nil {
		log.Fatalf("UI: %v", err)
	}
}

// Purpose: Feed packets into the aggregates without a terminal.
// Key aspects: Logs stats periodically and once more when the source ends or a signal arrives.
// Upstream: main when stdout is not a TTY.
// Downstream: aggregate.Store.Update, stats.Tracker.SnapshotLines.
func runHeadless(src *packetSource, store *aggregate.Store, pktFilter *filter.Filter, rec *recorder.Recorder, sigChan <-chan os.Signal) {
	ticker := time.NewTicker(statsLogInterval)
	defer ticker.Stop()
	logStats := func() {
		for _, line := range store.Stats.SnapshotLines() {
			log.Print(line)
		}
		log.Printf("Source: %s, %d nodes", src.stats(), store.Nodes.Len())
	}
	defer logStats()

	for {
		select {
		case ev, ok := <-src.events:
			if !ok {
				log.Printf("Source: end of input")
				return
			}
			if pktFilter.Matches(ev) {
				store.Update(ev)
				rec.Record(ev)
			}
		case <-ticker.C:
			logStats()
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
			return
		}
	}
}

// Purpose: Run the dashboard event loop.
// Key aspects: One goroutine owns the display; packets, terminal events, log lines and signals are serialized through select.
// Upstream: main when stdout is a TTY.
// Downstream: ui.Display, ui.RefreshScheduler.OnEvent, ui.InputRouter.HandleEvent.
func runDashboard(cfg *config.Config, src *packetSource, store *aggregate.Store, rates *stats.RateMeter, pktFilter *filter.Filter, filterPath string, rec *recorder.Recorder, fanout *logFanout, sigChan <-chan os.Signal) error {
	metrics := ui.NewMetrics()
	terminal := ui.NewTcellTerminal(nil)

	clock := &packetClock{replay: src.replay}

	editor := views.NewFilterEditor(pktFilter, func(f *filter.Filter) {
		syncFilterConfig(cfg, f)
		if filterPath == "" {
			return
		}
		if err := filter.SaveFile(filterPath, f); err != nil {
			log.Printf("UI: saving filter to %s failed: %v", filterPath, err)
		}
	})
	syncFilterConfig(cfg, pktFilter)

	display := ui.NewDisplay(ui.DisplayOptions{
		Config:   cfg,
		Terminal: terminal,
		Main:     views.NewMain(store, rates),
		Overlays: map[ui.WindowMode]ui.Overlay{
			ui.ModeESSID:    views.NewESSIDs(store.ESSIDs),
			ui.ModeHistory:  views.NewHistory(store.History),
			ui.ModeStats:    views.NewStats(store.Stats, rates, metrics),
			ui.ModeSpectrum: views.NewSpectrum(store.Spectrum),
			ui.ModeHelp:     views.NewHelp(),
		},
		Filter:     editor,
		Clearables: []ui.Clearable{store},
		Rates:      rates,
		Metrics:    metrics,
		Clock:      clock.Now,
	})

	uiLog := newUILogSink(uiLogQueue)
	fanout.SetConsole(uiLog)
	defer fanout.SetConsole(&writerSink{w: os.Stderr, timestamp: true})

	if err := display.Init(); err != nil {
		return err
	}
	defer display.Shutdown()
	defer func() {
		if r := recover(); r != nil {
			display.Shutdown()
			panic(r)
		}
	}()

	router := ui.NewInputRouter(display, ui.DefaultKeyTable())
	ticker := time.NewTicker(statsLogInterval)
	defer ticker.Stop()
	events := src.events

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				log.Printf("Source: end of input (%s)", src.stats())
				continue
			}
			if cfg.Paused || !pktFilter.Matches(ev) {
				continue
			}
			node := store.Update(ev)
			rec.Record(ev)
			now := clock.Stamp(ev.Time)
			display.Scheduler().OnEvent(now, ev, node)
		case tev := <-terminal.Events():
			quit, rebuildErr := router.HandleEvent(tev)
			if rebuildErr != nil {
				return rebuildErr
			}
			if quit {
				log.Printf("UI: quit")
				return nil
			}
		case line := <-uiLog.lines:
			display.Log().Append(line)
		case <-ticker.C:
			snap := metrics.Snapshot()
			now := time.Now()
			for _, line := range store.Stats.SnapshotLines() {
				fanout.WriteFileOnly(line, now)
			}
			fanout.WriteFileOnly(fmt.Sprintf("UI: redraws=%d coalesced=%d rebuilds=%d render_p99=%s source: %s",
				snap.FullRedraws, snap.Coalesced, snap.Rebuilds, snap.Render.P99, src.stats()), now)
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
			return nil
		}
	}
}

// syncFilterConfig mirrors the live filter into the config read by the
// status bar's filter indicator.
func syncFilterConfig(cfg *config.Config, f *filter.Filter) {
	cfg.Filter.Off = f.Off
	cfg.Filter.MACFilter = f.MACFilter
	cfg.Filter.PacketMask = uint32(f.Mask)
}
