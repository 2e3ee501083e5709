// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"fmt"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/slices"
	"sort"
)

type stopModeKey struct {
	stop string
	mode Mode
}

// StopIndicator collects the usage of one stop for one mode. Headway
// statistics are derived from the sorted departure times once all active
// trips have been seen, so insertion order never matters.
type StopIndicator struct {
	Stop     *gtfs.Stop
	Mode     Mode
	Passages int
	Routes   map[string]*gtfs.Route
	First    gtfs.Time
	Last     gtfs.Time

	MinHeadway    int // seconds, 0 when fewer than 2 timed passages
	MedianHeadway int
	MaxHeadway    int

	times []int
}

// HasHeadways reports whether enough timed passages were seen for the
// headway statistics to be defined.
func (si *StopIndicator) HasHeadways() bool {
	return len(si.times) > 1
}

// AmplitudeSecs is the span between the first and the last departure.
func (si *StopIndicator) AmplitudeSecs() int {
	if len(si.times) == 0 {
		return 0
	}
	return si.Last.SecondsSinceMidnight() - si.First.SecondsSinceMidnight()
}

func (si *StopIndicator) finalize() {
	if !si.HasHeadways() {
		return
	}

	slices.Sort(si.times)

	gaps := make([]int, 0, len(si.times)-1)
	for i := 1; i < len(si.times); i++ {
		gaps = append(gaps, si.times[i]-si.times[i-1])
	}
	slices.Sort(gaps)

	si.MinHeadway = gaps[0]
	si.MaxHeadway = gaps[len(gaps)-1]
	if len(gaps)%2 == 1 {
		si.MedianHeadway = gaps[len(gaps)/2]
	} else {
		si.MedianHeadway = (gaps[len(gaps)/2-1] + gaps[len(gaps)/2]) / 2
	}
}

// StopIndicatorAggregator accumulates per-stop usage over the active
// trips of a run.
type StopIndicatorAggregator struct {
	UseParentStations bool

	indics map[stopModeKey]*StopIndicator
}

func NewStopIndicatorAggregator() *StopIndicatorAggregator {
	return &StopIndicatorAggregator{indics: make(map[stopModeKey]*StopIndicator)}
}

// AddTrip records one passage per stop time of the trip. Stop times with
// empty (interpolated) departure times count as passages but contribute
// no time statistics.
func (a *StopIndicatorAggregator) AddTrip(t *gtfs.Trip, mode Mode) {
	for _, st := range t.StopTimes {
		s := st.Stop()
		if a.UseParentStations && s.Parent_station != nil {
			s = s.Parent_station
		}

		key := stopModeKey{stop: s.Id, mode: mode}
		si, ok := a.indics[key]
		if !ok {
			empty := gtfs.Time{Hour: -1, Minute: -1, Second: -1}
			si = &StopIndicator{Stop: s, Mode: mode, Routes: make(map[string]*gtfs.Route), First: empty, Last: empty}
			a.indics[key] = si
		}

		si.Passages++
		if t.Route != nil {
			si.Routes[t.Route.Id] = t.Route
		}

		dep := st.Departure_time()
		if dep.Empty() {
			continue
		}

		sec := dep.SecondsSinceMidnight()
		if len(si.times) == 0 || sec < si.First.SecondsSinceMidnight() {
			si.First = dep
		}
		if len(si.times) == 0 || sec > si.Last.SecondsSinceMidnight() {
			si.Last = dep
		}
		si.times = append(si.times, sec)
	}
}

// Results finalizes the headway statistics and returns the table sorted
// by mode and stop id. Stops without passages for a mode never appear,
// a row would otherwise imply service that doesn't exist.
func (a *StopIndicatorAggregator) Results() []*StopIndicator {
	ret := make([]*StopIndicator, 0, len(a.indics))
	for _, si := range a.indics {
		si.finalize()
		ret = append(ret, si)
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Mode != ret[j].Mode {
			return ret[i].Mode < ret[j].Mode
		}
		return ret[i].Stop.Id < ret[j].Stop.Id
	})

	return ret
}

// TimeString formats a GTFS time as HH:MM:SS, allowing hours beyond 24
// for after-midnight service.
func TimeString(t gtfs.Time) string {
	if t.Empty() {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
