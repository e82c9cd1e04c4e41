package converter

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// WindowDecision is what to do with a snapshot given its header timestamp.
type WindowDecision int

const (
	// Process passes the snapshot to the consumer.
	Process WindowDecision = iota
	// SkipEarly drops a snapshot from before the window; later ones may still qualify.
	SkipEarly
	// Stop ends the run: snapshots are time ordered, so nothing later can qualify.
	Stop
)

func (d WindowDecision) String() string {
	switch d {
	case Process:
		return "process"
	case SkipEarly:
		return "skip_early"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// AnalysisWindow is the inclusive [Start, End] range of snapshot timestamps, in Unix seconds.
type AnalysisWindow struct {
	Start int64
	End   int64
}

// NewAnalysisWindow pads the service day's scheduled span on both sides. Offsets are resolved
// on date in the schedule's reference timezone.
func NewAnalysisWindow(day *gtfs.ServiceDay, date time.Time, padding time.Duration) (AnalysisWindow, error) {
	loc, err := day.Location()
	if err != nil {
		return AnalysisWindow{}, err
	}
	return AnalysisWindow{
		Start: utils.GTFSTime(date, day.StartSeconds, loc).Add(-padding).Unix(),
		End:   utils.GTFSTime(date, day.EndSeconds, loc).Add(padding).Unix(),
	}, nil
}

// Classify places ts relative to the window.
func (w AnalysisWindow) Classify(ts int64) WindowDecision {
	switch {
	case ts < w.Start:
		return SkipEarly
	case ts > w.End:
		return Stop
	}
	return Process
}
