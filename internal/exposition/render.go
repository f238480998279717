// Package exposition renders registry snapshots in the Prometheus text
// exposition format (version 0.0.4).
package exposition

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/neox5/hostbox/internal/metric"
)

// ContentType is the media type of rendered output.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

var helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// Render returns the text exposition of a snapshot.
func Render(snap metric.Snapshot) []byte {
	var buf bytes.Buffer
	for _, s := range snap.Samples() {
		writeSample(&buf, s)
	}
	return buf.Bytes()
}

// Write renders a snapshot into w.
func Write(w io.Writer, snap metric.Snapshot) error {
	_, err := w.Write(Render(snap))
	return err
}

func writeSample(buf *bytes.Buffer, s metric.Sample) {
	buf.WriteString("# HELP ")
	buf.WriteString(s.Name)
	buf.WriteByte(' ')
	buf.WriteString(helpEscaper.Replace(s.Help))
	buf.WriteByte('\n')

	buf.WriteString("# TYPE ")
	buf.WriteString(s.Name)
	buf.WriteByte(' ')
	buf.WriteString(string(s.Kind))
	buf.WriteByte('\n')

	if s.Kind != metric.KindHistogram {
		writeLine(buf, s.Name, "", FormatFloat(s.Value))
		return
	}

	h := s.Histogram
	for i, count := range h.Counts {
		le := "+Inf"
		if i < len(s.Buckets) {
			le = FormatFloat(s.Buckets[i])
		}
		writeLine(buf, s.Name+"_bucket", le, strconv.FormatUint(count, 10))
	}
	writeLine(buf, s.Name+"_sum", "", FormatFloat(h.Sum))
	writeLine(buf, s.Name+"_count", "", strconv.FormatUint(h.Count, 10))
}

func writeLine(buf *bytes.Buffer, name, le, value string) {
	buf.WriteString(name)
	if le != "" {
		buf.WriteString(`{le="`)
		buf.WriteString(le)
		buf.WriteString(`"}`)
	}
	buf.WriteByte(' ')
	buf.WriteString(value)
	buf.WriteByte('\n')
}

// FormatFloat returns the shortest plain decimal form of v that parses back
// to the same float64.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
