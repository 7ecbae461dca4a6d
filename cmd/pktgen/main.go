package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"wlanmon/source"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// pktgen writes a synthetic JSON-lines capture that wlanmon can replay. The
// output is deterministic for a given seed and start time, which makes it
// usable as a fixture for profiling the dashboard.
func main() {
	var (
		ratePerSec = flag.Int("rate", 200, "packets per second of capture time")
		runFor     = flag.Duration("duration", time.Minute, "capture time span to generate")
		seed       = flag.Int64("seed", 1, "generator seed")
		channels   = flag.String("channels", "1,6,11", "comma-separated channel list")
		networks   = flag.Int("networks", 6, "number of access points")
		stations   = flag.Int("stations", 24, "number of stations")
		start      = flag.String("start", "", "capture start time (RFC3339); default now")
		outPath    = flag.String("out", "-", "output file, - for stdout")
	)
	flag.Parse()

	if *ratePerSec <= 0 {
		log.Fatalf("rate must be >0 (got %d)", *ratePerSec)
	}
	if *runFor <= 0 {
		log.Fatalf("duration must be >0 (got %s)", runFor.String())
	}
	chans, err := parseChannels(*channels)
	if err != nil {
		log.Fatalf("pktgen: %v", err)
	}
	begin := time.Now().UTC()
	if *start != "" {
		if begin, err = time.Parse(time.RFC3339, *start); err != nil {
			log.Fatalf("pktgen: invalid start: %v", err)
		}
	}

	out := io.Writer(os.Stdout)
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("pktgen: %v", err)
		}
		defer f.Close()
		out = f
	}

	gen := source.NewSynthetic(source.SyntheticOptions{
		Seed:     *seed,
		Channels: chans,
		Networks: *networks,
		Stations: *stations,
	})
	count, err := generate(out, gen, begin, *runFor, *ratePerSec)
	if err != nil {
		log.Fatalf("pktgen: %v", err)
	}
	log.Printf("pktgen: wrote %d packets spanning %s", count, runFor.String())
}

// generate writes rate packets per second of capture time, evenly spaced,
// and returns how many were written.
func generate(w io.Writer, gen *source.Synthetic, begin time.Time, span time.Duration, rate int) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	step := time.Second / time.Duration(rate)
	total := int(span / step)
	for i := 0; i < total; i++ {
		if err := enc.Encode(gen.Next(begin.Add(time.Duration(i) * step))); err != nil {
			return i, fmt.Errorf("encode packet %d: %w", i, err)
		}
	}
	return total, bw.Flush()
}

func parseChannels(raw string) ([]int, error) {
	var chans []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch, err := strconv.Atoi(part)
		if err != nil || ch <= 0 {
			return nil, fmt.Errorf("invalid channel %q", part)
		}
		chans = append(chans, ch)
	}
	if len(chans) == 0 {
		return nil, fmt.Errorf("no channels given")
	}
	return chans, nil
}
