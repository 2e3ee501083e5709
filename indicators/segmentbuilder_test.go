// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"github.com/patrickbr/gtfsparser/gtfs"
	"math"
	"testing"
)

func testStop(id string, lat float32, lon float32) *gtfs.Stop {
	return &gtfs.Stop{Id: id, Name: id, Lat: lat, Lon: lon}
}

func testStopTime(s *gtfs.Stop, hour int8, minute int8) gtfs.StopTime {
	st := gtfs.StopTime{}
	st.SetStop(s)
	st.SetArrival_time(gtfs.Time{Hour: hour, Minute: minute, Second: 0})
	st.SetDeparture_time(gtfs.Time{Hour: hour, Minute: minute, Second: 0})
	return st
}

func testTrip(id string, r *gtfs.Route, shp *gtfs.Shape, sts ...gtfs.StopTime) *gtfs.Trip {
	return &gtfs.Trip{Id: id, Route: r, Shape: shp, StopTimes: gtfs.StopTimes(sts)}
}

func TestSegmentDeduplication(t *testing.T) {
	a := testStop("A", 45.75, 4.85)
	b := testStop("B", 45.76, 4.86)
	r1 := &gtfs.Route{Id: "R1", Type: 3}
	r2 := &gtfs.Route{Id: "R2", Type: 3}

	sb := NewSegmentBuilder()
	sb.AddTrip(testTrip("t1", r1, nil, testStopTime(a, 8, 0), testStopTime(b, 8, 5)), ModeBus)
	sb.AddTrip(testTrip("t2", r2, nil, testStopTime(a, 9, 0), testStopTime(b, 9, 6)), ModeBus)

	segs := sb.Segments()

	if len(segs) != 1 {
		t.Fatal(segs)
	}

	if segs[0].Traversals != 2 {
		t.Error(segs[0].Traversals)
	}

	if len(segs[0].Routes) != 2 {
		t.Error(segs[0].Routes)
	}
}

func TestSegmentDirectionality(t *testing.T) {
	a := testStop("A", 45.75, 4.85)
	b := testStop("B", 45.76, 4.86)
	r := &gtfs.Route{Id: "R1", Type: 3}

	sb := NewSegmentBuilder()
	sb.AddTrip(testTrip("t1", r, nil, testStopTime(a, 8, 0), testStopTime(b, 8, 5), testStopTime(a, 8, 10)), ModeBus)

	segs := sb.Segments()

	if len(segs) != 2 {
		t.Fatal(segs)
	}

	for _, s := range segs {
		if s.Traversals != 1 {
			t.Error(s)
		}
	}

	if segs[0].From.Id == segs[1].From.Id {
		t.Error("A->B and B->A should be distinct segments")
	}
}

func TestTraversalConservation(t *testing.T) {
	a := testStop("A", 45.75, 4.85)
	b := testStop("B", 45.76, 4.86)
	c := testStop("C", 45.77, 4.87)
	r := &gtfs.Route{Id: "R1", Type: 3}

	trips := []*gtfs.Trip{
		testTrip("t1", r, nil, testStopTime(a, 8, 0), testStopTime(b, 8, 5), testStopTime(c, 8, 10)),
		testTrip("t2", r, nil, testStopTime(a, 9, 0), testStopTime(b, 9, 5)),
		testTrip("t3", r, nil, testStopTime(c, 10, 0), testStopTime(b, 10, 5), testStopTime(a, 10, 10)),
		testTrip("t4", r, nil, testStopTime(a, 11, 0)), // too short, no segments
	}

	sb := NewSegmentBuilder()
	expected := 0
	for _, trip := range trips {
		sb.AddTrip(trip, ModeBus)
		if len(trip.StopTimes) > 1 {
			expected += len(trip.StopTimes) - 1
		}
	}

	sum := 0
	for _, s := range sb.Segments() {
		sum += s.Traversals
	}

	if sum != expected {
		t.Errorf("expected %d total traversals, got %d", expected, sum)
	}
}

func equatorShape() *gtfs.Shape {
	return &gtfs.Shape{Id: "shp", Points: gtfs.ShapePoints{
		gtfs.ShapePoint{Lat: 0, Lon: -0.001, Sequence: 1},
		gtfs.ShapePoint{Lat: 0, Lon: 0.001, Sequence: 2},
		gtfs.ShapePoint{Lat: 0, Lon: 0.003, Sequence: 3},
	}}
}

func TestShapeClip(t *testing.T) {
	a := testStop("A", 0, 0)
	b := testStop("B", 0, 0.002)
	r := &gtfs.Route{Id: "R1", Type: 0}

	sb := NewSegmentBuilder()
	sb.AddTrip(testTrip("t1", r, equatorShape(), testStopTime(a, 8, 0), testStopTime(b, 8, 5)), ModeTram)

	segs := sb.Segments()

	if len(segs) != 1 {
		t.Fatal(segs)
	}

	seg := segs[0]

	if seg.GeomSource != GeomShape {
		t.Fatal(seg.GeomSource)
	}

	// clip between the two projections, including the shape vertex at
	// lon 0.001 that lies between them
	if len(seg.Geom) != 3 {
		t.Fatal(seg.Geom)
	}

	lons := []float64{0, 0.001, 0.002}
	for i, p := range seg.Geom {
		if math.Abs(p[0]-lons[i]) > 1e-4 || math.Abs(p[1]) > 1e-4 {
			t.Errorf("point %d: expected (%f, 0), got (%f, %f)", i, lons[i], p[0], p[1])
		}
	}
}

func TestGeometryUpgradeMonotonic(t *testing.T) {
	a := testStop("A", 0, 0)
	b := testStop("B", 0, 0.002)
	r := &gtfs.Route{Id: "R1", Type: 0}

	withShape := func() *gtfs.Trip {
		return testTrip("t1", r, equatorShape(), testStopTime(a, 8, 0), testStopTime(b, 8, 5))
	}
	withoutShape := func() *gtfs.Trip {
		return testTrip("t2", r, nil, testStopTime(a, 9, 0), testStopTime(b, 9, 5))
	}

	// fallback first, shape later: geometry must upgrade
	sb := NewSegmentBuilder()
	sb.AddTrip(withoutShape(), ModeTram)
	sb.AddTrip(withShape(), ModeTram)

	segs := sb.Segments()
	if len(segs) != 1 || segs[0].GeomSource != GeomShape {
		t.Error(segs)
	}
	if segs[0].Traversals != 2 {
		t.Error(segs[0].Traversals)
	}

	// shape first, fallback later: geometry must not degrade
	sb = NewSegmentBuilder()
	sb.AddTrip(withShape(), ModeTram)
	sb.AddTrip(withoutShape(), ModeTram)

	segs = sb.Segments()
	if len(segs) != 1 || segs[0].GeomSource != GeomShape {
		t.Error(segs)
	}
	if len(segs[0].Geom) != 3 {
		t.Error(segs[0].Geom)
	}
}

func TestDegenerateShapeClip(t *testing.T) {
	a := testStop("A", 0, 0)
	b := testStop("B", 0, 0.002)
	r := &gtfs.Route{Id: "R1", Type: 0}

	// both stops project to the same point on a zero-length shape
	shp := &gtfs.Shape{Id: "shp", Points: gtfs.ShapePoints{
		gtfs.ShapePoint{Lat: 0.001, Lon: 0.001, Sequence: 1},
		gtfs.ShapePoint{Lat: 0.001, Lon: 0.001, Sequence: 2},
	}}

	sb := NewSegmentBuilder()
	sb.AddTrip(testTrip("t1", r, shp, testStopTime(a, 8, 0), testStopTime(b, 8, 5)), ModeTram)

	segs := sb.Segments()

	if len(segs) != 1 {
		t.Fatal(segs)
	}

	if segs[0].GeomSource != GeomStraightLine {
		t.Error("degenerate clip should fall back to the straight line")
	}

	if segs[0].Traversals != 1 {
		t.Error(segs[0].Traversals)
	}

	if len(sb.Diagnostics()) != 1 {
		t.Error(sb.Diagnostics())
	}

	if sb.Diagnostics()[0].Kind != DegenerateGeometry {
		t.Error(sb.Diagnostics()[0])
	}
}

func TestParentStationAggregation(t *testing.T) {
	parent := testStop("P1", 45.75, 4.85)
	child1 := testStop("P1a", 45.7501, 4.8501)
	child2 := testStop("P1b", 45.7502, 4.8502)
	child1.Parent_station = parent
	child2.Parent_station = parent
	b := testStop("B", 45.76, 4.86)
	r := &gtfs.Route{Id: "R1", Type: 3}

	sb := NewSegmentBuilder()
	sb.UseParentStations = true
	sb.AddTrip(testTrip("t1", r, nil, testStopTime(child1, 8, 0), testStopTime(b, 8, 5)), ModeBus)
	sb.AddTrip(testTrip("t2", r, nil, testStopTime(child2, 9, 0), testStopTime(b, 9, 5)), ModeBus)

	segs := sb.Segments()

	if len(segs) != 1 {
		t.Fatal(segs)
	}

	if segs[0].From.Id != "P1" || segs[0].Traversals != 2 {
		t.Error(segs[0])
	}
}
