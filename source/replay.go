// Package source produces packet events for the dashboard: a replay of a
// recorded JSON-lines capture, or a seeded synthetic generator for demos.
// Both deliver on a channel that is closed once the source is exhausted.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wlanmon/packet"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	replayBuffer     = 256
	followPollPeriod = 200 * time.Millisecond
	maxLineBytes     = 64 * 1024
)

// ReplayOptions controls pacing of a recorded capture.
type ReplayOptions struct {
	// Realtime sleeps between packets according to their capture timestamps.
	Realtime bool
	// Speed scales realtime pacing; 2 replays twice as fast. Values <= 0 mean 1.
	Speed float64
	// Follow keeps polling for appended lines after EOF instead of closing.
	Follow bool
}

// Replay decodes one packet.Event per line. Malformed lines are counted and
// skipped.
type Replay struct {
	r    io.Reader
	opts ReplayOptions

	decoded atomic.Uint64
	skipped atomic.Uint64

	sleep func(ctx context.Context, d time.Duration) bool
}

func NewReplay(r io.Reader, opts ReplayOptions) *Replay {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	return &Replay{r: r, opts: opts, sleep: sleepCtx}
}

// Start launches the reader goroutine. The returned channel is closed at EOF
// (unless following), on a read error, or when ctx is cancelled.
func (rp *Replay) Start(ctx context.Context) <-chan *packet.Event {
	out := make(chan *packet.Event, replayBuffer)
	go func() {
		defer close(out)
		rp.run(ctx, out)
	}()
	return out
}

// Stats returns decoded and skipped line counts.
func (rp *Replay) Stats() (decoded, skipped uint64) {
	return rp.decoded.Load(), rp.skipped.Load()
}

func (rp *Replay) run(ctx context.Context, out chan<- *packet.Event) {
	reader := bufio.NewReaderSize(rp.r, 4096)
	var (
		pending   []byte
		firstPkt  time.Time
		wallStart time.Time
	)
	for {
		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err != nil && !errors.Is(err, io.EOF) {
			log.Printf("Replay: read error: %v", err)
			return
		}
		if errors.Is(err, io.EOF) {
			if rp.opts.Follow {
				if len(pending) > maxLineBytes {
					rp.skipped.Add(1)
					pending = pending[:0]
				}
				if !rp.sleep(ctx, followPollPeriod) {
					return
				}
				continue
			}
			if len(bytes.TrimSpace(pending)) == 0 {
				return
			}
		}
		line := bytes.TrimSpace(pending)
		pending = pending[:0]
		if len(line) == 0 {
			continue
		}

		var ev packet.Event
		if decodeErr := json.Unmarshal(line, &ev); decodeErr != nil {
			rp.skipped.Add(1)
			continue
		}
		rp.decoded.Add(1)

		if rp.opts.Realtime && !ev.Time.IsZero() {
			if firstPkt.IsZero() {
				firstPkt = ev.Time
				wallStart = time.Now()
			}
			offset := time.Duration(float64(ev.Time.Sub(firstPkt)) / rp.opts.Speed)
			if wait := time.Until(wallStart.Add(offset)); wait > 0 {
				if !rp.sleep(ctx, wait) {
					return
				}
			}
		}

		select {
		case out <- &ev:
		case <-ctx.Done():
			return
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
