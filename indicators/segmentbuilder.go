// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"sort"
)

// GeomSource tags where a segment's geometry came from.
type GeomSource int

const (
	GeomNone GeomSource = iota
	GeomStraightLine
	GeomShape
)

func (g GeomSource) String() string {
	switch g {
	case GeomStraightLine:
		return "straight-line"
	case GeomShape:
		return "shape"
	}
	return "none"
}

// SegmentKey identifies a directed segment. A->B and B->A are distinct
// keys, headway and frequency are direction-sensitive.
type SegmentKey struct {
	From string
	To   string
	Mode Mode
}

// Segment is a deduplicated directed edge between two consecutive stops
// on some trip's path. For a fixed key at most one record exists per
// run, all traversing trips contribute to the same counters.
type Segment struct {
	From       *gtfs.Stop
	To         *gtfs.Stop
	Mode       Mode
	Geom       [][]float64 // lon/lat pairs
	GeomSource GeomSource
	Traversals int
	Routes     map[string]*gtfs.Route

	durSum int
	durMin int
	durMax int
	durN   int
}

func (s *Segment) addDuration(secs int) {
	if s.durN == 0 || secs < s.durMin {
		s.durMin = secs
	}
	if s.durN == 0 || secs > s.durMax {
		s.durMax = secs
	}
	s.durSum += secs
	s.durN++
}

// SegmentBuilder accumulates the run's segment table, one record per
// (origin, destination, mode) regardless of how many trips traverse it.
type SegmentBuilder struct {
	UseParentStations bool

	segments map[SegmentKey]*Segment
	lines    map[*gtfs.Shape]polyline
	diags    []Diagnostic
}

func NewSegmentBuilder() *SegmentBuilder {
	return &SegmentBuilder{
		segments: make(map[SegmentKey]*Segment),
		lines:    make(map[*gtfs.Shape]polyline),
	}
}

// AddTrip derives one segment contribution per consecutive stop pair of
// the trip's stop time sequence. Trips with fewer than 2 stop times
// contribute nothing.
func (b *SegmentBuilder) AddTrip(t *gtfs.Trip, mode Mode) {
	if len(t.StopTimes) < 2 {
		return
	}

	var pl polyline
	var pos []float64
	hasShape := t.Shape != nil && len(t.Shape.Points) > 1
	if hasShape {
		pl = b.line(t.Shape)
		pos = b.shapePositions(pl, t)
	}

	for i := 0; i+1 < len(t.StopTimes); i++ {
		from := b.resolveStop(t.StopTimes[i].Stop())
		to := b.resolveStop(t.StopTimes[i+1].Stop())

		key := SegmentKey{From: from.Id, To: to.Id, Mode: mode}
		seg, ok := b.segments[key]
		if !ok {
			seg = &Segment{From: from, To: to, Mode: mode, Routes: make(map[string]*gtfs.Route)}
			b.segments[key] = seg
		}

		geom := straightLine(from, to)
		src := GeomStraightLine
		if hasShape {
			if pos[i+1] > pos[i] {
				geom = pl.clip(pos[i], pos[i+1])
				src = GeomShape
			} else {
				b.diags = append(b.diags, Diagnostic{Kind: DegenerateGeometry, TripId: t.Id, FromId: from.Id, ToId: to.Id})
			}
		}

		// first-shape-wins: never replace a shape-derived geometry with
		// a straight-line fallback
		if seg.GeomSource == GeomNone || (seg.GeomSource == GeomStraightLine && src == GeomShape) {
			seg.Geom = geom
			seg.GeomSource = src
		}

		seg.Traversals++
		if t.Route != nil {
			seg.Routes[t.Route.Id] = t.Route
		}

		dep := t.StopTimes[i].Departure_time()
		arr := t.StopTimes[i+1].Arrival_time()
		if !dep.Empty() && !arr.Empty() {
			d := arr.SecondsSinceMidnight() - dep.SecondsSinceMidnight()
			if d > 0 {
				seg.addDuration(d)
			}
		}
	}
}

func (b *SegmentBuilder) resolveStop(s *gtfs.Stop) *gtfs.Stop {
	if b.UseParentStations && s.Parent_station != nil {
		return s.Parent_station
	}
	return s
}

func (b *SegmentBuilder) line(shp *gtfs.Shape) polyline {
	pl, ok := b.lines[shp]
	if !ok {
		pl = newPolyline(shp)
		b.lines[shp] = pl
	}
	return pl
}

// shapePositions projects every stop of the trip onto the shape, keeping
// positions monotonically non-decreasing along the line.
func (b *SegmentBuilder) shapePositions(pl polyline, t *gtfs.Trip) []float64 {
	pos := make([]float64, len(t.StopTimes))
	last := 0.0
	for i, st := range t.StopTimes {
		s := b.resolveStop(st.Stop())
		px, py := latLngToWebMerc(s.Lat, s.Lon)
		last = pl.project(px, py, last)
		pos[i] = last
	}
	return pos
}

func straightLine(a *gtfs.Stop, b *gtfs.Stop) [][]float64 {
	return [][]float64{
		{float64(a.Lon), float64(a.Lat)},
		{float64(b.Lon), float64(b.Lat)},
	}
}

// Segments returns the deduplicated segment table, sorted by mode,
// origin and destination.
func (b *SegmentBuilder) Segments() []*Segment {
	ret := make([]*Segment, 0, len(b.segments))
	for _, s := range b.segments {
		ret = append(ret, s)
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Mode != ret[j].Mode {
			return ret[i].Mode < ret[j].Mode
		}
		if ret[i].From.Id != ret[j].From.Id {
			return ret[i].From.Id < ret[j].From.Id
		}
		return ret[i].To.Id < ret[j].To.Id
	})

	return ret
}

// Diagnostics returns the non-fatal conditions recorded so far.
func (b *SegmentBuilder) Diagnostics() []Diagnostic {
	return b.diags
}
