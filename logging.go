package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"wlanmon/config"
)

const (
	logTimestampLayout = "2006/01/02 15:04:05"
	logFilePrefix      = "wlanmon-"
	logFileDateLayout  = "2006-01-02"
	maxPendingLogBytes = 16 * 1024
)

// lineSink receives complete log lines.
type lineSink interface {
	WriteLine(line string, now time.Time)
	Close() error
}

// writerSink forwards lines to a plain writer, e.g. stderr in headless mode.
type writerSink struct {
	w         io.Writer
	timestamp bool
}

func (s *writerSink) WriteLine(line string, now time.Time) {
	if s == nil || s.w == nil {
		return
	}
	if s.timestamp {
		line = formatLogTimestamp(now) + " " + line
	}
	_, _ = io.WriteString(s.w, line+"\n")
}

func (s *writerSink) Close() error { return nil }

// dailyLogFile appends to one file per UTC day and prunes files older than the
// retention window whenever it opens a new one.
type dailyLogFile struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
	day           string
	file          *os.File
	lastErrorAt   time.Time
}

// Purpose: Open the log directory for daily files.
// Key aspects: Creates the directory and prunes old files up front.
// Upstream: setupLogging.
// Downstream: pruneLogFiles.
func newDailyLogFile(dir string, retentionDays int) (*dailyLogFile, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("log directory is empty")
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %q: %w", dir, err)
	}
	if err := pruneLogFiles(dir, time.Now().UTC(), retentionDays); err != nil {
		fmt.Fprintf(os.Stderr, "Logging: prune failed for %s: %v\n", dir, err)
	}
	return &dailyLogFile{dir: dir, retentionDays: retentionDays}, nil
}

// Purpose: Append a timestamped line to today's file.
// Key aspects: Switches files when the UTC day changes; errors go to stderr at most once a minute.
// Upstream: logFanout.Write and logFanout.WriteFileOnly.
// Downstream: os.File.WriteString.
func (s *dailyLogFile) WriteLine(line string, now time.Time) {
	if s == nil {
		return
	}
	now = now.UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if day := now.Format(logFileDateLayout); s.file == nil || s.day != day {
		s.openLocked(day, now)
	}
	if s.file == nil {
		return
	}
	if _, err := s.file.WriteString(formatLogTimestamp(now) + " " + line + "\n"); err != nil {
		s.reportLocked(now, fmt.Errorf("write failed: %w", err))
	}
}

// currentPath returns the file being written, or "" before the first line.
func (s *dailyLogFile) currentPath() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}

func (s *dailyLogFile) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.day = ""
	return err
}

func (s *dailyLogFile) openLocked(day string, now time.Time) {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	path := filepath.Join(s.dir, logFileName(now))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.reportLocked(now, fmt.Errorf("open %s: %w", path, err))
		return
	}
	s.file = file
	s.day = day
	if err := pruneLogFiles(s.dir, now, s.retentionDays); err != nil {
		s.reportLocked(now, fmt.Errorf("prune failed: %w", err))
	}
}

func (s *dailyLogFile) reportLocked(now time.Time, err error) {
	if !s.lastErrorAt.IsZero() && now.Sub(s.lastErrorAt) < time.Minute {
		return
	}
	s.lastErrorAt = now
	fmt.Fprintf(os.Stderr, "Logging: %v\n", err)
}

// logFanout is the log.Logger output. It splits writes into lines and hands
// each to the console sink (stderr or the UI log panel) and the file sink.
type logFanout struct {
	mu      sync.Mutex
	pending []byte
	console lineSink
	file    lineSink
}

// Purpose: Build the fanout from the logging config.
// Key aspects: Always returns a usable fanout; a file error is returned alongside it.
// Upstream: main startup.
// Downstream: newDailyLogFile, log.SetOutput.
func setupLogging(cfg config.LoggingConfig, console io.Writer) (*logFanout, error) {
	fanout := &logFanout{}
	if console != nil {
		fanout.console = &writerSink{w: console, timestamp: true}
	}
	if !cfg.Enabled {
		return fanout, nil
	}
	file, err := newDailyLogFile(cfg.Dir, cfg.RetentionDays)
	if err != nil {
		return fanout, err
	}
	fanout.file = file
	return fanout, nil
}

// SetConsole replaces the console sink. A nil sink drops console output,
// which is what the dashboard wants while it owns the terminal.
func (f *logFanout) SetConsole(sink lineSink) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.console = sink
	f.mu.Unlock()
}

func (f *logFanout) Write(p []byte) (int, error) {
	if f == nil {
		return len(p), nil
	}
	f.mu.Lock()
	f.pending = append(f.pending, p...)
	var lines []string
	for {
		idx := bytes.IndexByte(f.pending, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, string(bytes.TrimRight(f.pending[:idx], "\r")))
		f.pending = f.pending[idx+1:]
	}
	if len(f.pending) > maxPendingLogBytes {
		lines = append(lines, string(f.pending))
		f.pending = nil
	}
	if len(f.pending) == 0 {
		f.pending = nil
	}
	console, file := f.console, f.file
	f.mu.Unlock()

	now := time.Now().UTC()
	for _, line := range lines {
		if console != nil {
			console.WriteLine(line, now)
		}
		if file != nil {
			file.WriteLine(line, now)
		}
	}
	return len(p), nil
}

// WriteFileOnly records a line in the log file without showing it on screen.
func (f *logFanout) WriteFileOnly(line string, now time.Time) {
	if f == nil {
		return
	}
	f.mu.Lock()
	file := f.file
	f.mu.Unlock()
	if file != nil {
		file.WriteLine(line, now)
	}
}

func (f *logFanout) Close() error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	console, file := f.console, f.file
	f.mu.Unlock()
	if console != nil {
		_ = console.Close()
	}
	if file != nil {
		return file.Close()
	}
	return nil
}

// uiLogSink routes log lines into the dashboard's packet log panel. Lines are
// queued because the panel may only be touched from the UI goroutine.
type uiLogSink struct {
	lines chan string
}

func newUILogSink(size int) *uiLogSink {
	return &uiLogSink{lines: make(chan string, size)}
}

// WriteLine never blocks; lines are dropped when the UI falls behind.
func (s *uiLogSink) WriteLine(line string, _ time.Time) {
	select {
	case s.lines <- line:
	default:
	}
}

func (s *uiLogSink) Close() error { return nil }

func formatLogTimestamp(now time.Time) string {
	return now.UTC().Format(logTimestampLayout)
}

func logFileName(now time.Time) string {
	return logFilePrefix + now.UTC().Format(logFileDateLayout) + ".log"
}

func parseLogFileDate(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, logFilePrefix) || filepath.Ext(name) != ".log" {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, logFilePrefix), ".log")
	parsed, err := time.ParseInLocation(logFileDateLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// pruneLogFiles removes daily files older than retentionDays, counting today.
func pruneLogFiles(dir string, now time.Time, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	y, m, d := now.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(retentionDays - 1))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if date, ok := parseLogFileDate(entry.Name()); ok && date.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}
