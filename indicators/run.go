// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/slices"
)

// Options are the only parameters affecting a run. The result tables are
// a pure function of (feed, Options).
type Options struct {
	Date              gtfs.Date
	Modes             map[Mode]bool
	UseParentStations bool
}

// Result holds the two indicator tables and the non-fatal diagnostics
// collected while building them.
type Result struct {
	Stops       []*StopIndicator
	Segments    []*SegmentIndicator
	ActiveTrips int
	Diagnostics []Diagnostic
}

// Run computes the stop and segment indicator tables for one feed and
// one study date. Fatal errors return before any table is built, trips
// are processed in sorted id order so re-runs are byte-identical.
func Run(feed *gtfsparser.Feed, opts Options) (*Result, error) {
	if err := checkFeed(feed); err != nil {
		return nil, err
	}

	active, err := ActiveTrips(feed, opts.Date)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	stops := NewStopIndicatorAggregator()
	stops.UseParentStations = opts.UseParentStations
	segs := NewSegmentBuilder()
	segs.UseParentStations = opts.UseParentStations

	n := 0
	for _, id := range ids {
		t := active[id]
		mode := ClassifyRoute(t.Route)
		if mode == ModeOther || !opts.Modes[mode] {
			continue
		}

		stops.AddTrip(t, mode)
		segs.AddTrip(t, mode)
		n++
	}

	return &Result{
		Stops:       stops.Results(),
		Segments:    BuildSegmentIndicators(segs.Segments()),
		ActiveTrips: n,
		Diagnostics: segs.Diagnostics(),
	}, nil
}

// checkFeed guards against dangling references. gtfsparser resolves
// references to pointers at parse time, a nil here means the referenced
// table entry was missing.
func checkFeed(feed *gtfsparser.Feed) error {
	for id, t := range feed.Trips {
		if t.Route == nil {
			return &FeedIntegrityError{Entity: "trip", Id: id, Missing: "route"}
		}
		if t.Service == nil {
			return &FeedIntegrityError{Entity: "trip", Id: id, Missing: "service"}
		}
		for _, st := range t.StopTimes {
			if st.Stop() == nil {
				return &FeedIntegrityError{Entity: "trip", Id: id, Missing: "stop"}
			}
		}
	}
	return nil
}
