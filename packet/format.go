package packet

import (
	"strconv"
	"strings"
)

// LogLine renders the one-line summary used by the scrolling packet log:
//
//	B -62 54M  312 00:11:22:33:44:55 > 66:77:88 [homenet]
//
// The builder is sized up front; the log path runs once per captured packet.
func LogLine(e *Event) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(72 + len(e.ESSID))
	b.WriteByte(e.Type.Char())
	b.WriteByte(' ')
	b.WriteString(padLeft(strconv.Itoa(e.Signal), 3))
	b.WriteByte(' ')
	b.WriteString(padLeft(e.RateString(), 5))
	b.WriteByte(' ')
	b.WriteString(padLeft(strconv.Itoa(e.Len), 5))
	b.WriteByte(' ')
	b.WriteString(e.Src.String())
	if !e.BSSID.IsZero() {
		b.WriteString(" > ")
		b.WriteString(e.BSSID.Short())
	}
	if e.ESSID != "" {
		b.WriteString(" [")
		b.WriteString(e.ESSID)
		b.WriteByte(']')
	}
	return b.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
