// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"fmt"
	"strings"
)

// SegmentIndicator is one segment row of the result table, the
// accumulated counters plus derived reporting values.
type SegmentIndicator struct {
	*Segment

	Id                 string
	DistanceKm         float64
	TraversalsPerRoute float64
	MeanDurationSecs   float64
	MinDurationSecs    int
	MaxDurationSecs    int
	MeanSpeedKmh       float64
}

// HasDurations reports whether any timed traversal was seen for this
// segment.
func (si *SegmentIndicator) HasDurations() bool {
	return si.durN > 0
}

// BuildSegmentIndicators derives the reporting table from the already
// sorted segment accumulator. No trip is traversed again, everything is
// computed from the counters collected while building.
func BuildSegmentIndicators(segs []*Segment) []*SegmentIndicator {
	ret := make([]*SegmentIndicator, 0, len(segs))
	seq := make(map[Mode]int)

	for _, s := range segs {
		si := &SegmentIndicator{Segment: s}
		si.Id = fmt.Sprintf("SEG_%s_%06d", strings.ToUpper(s.Mode.String()), seq[s.Mode])
		seq[s.Mode]++
		si.DistanceKm = pathLengthKm(s.Geom)

		if len(s.Routes) > 0 {
			si.TraversalsPerRoute = float64(s.Traversals) / float64(len(s.Routes))
		}

		if s.durN > 0 {
			si.MeanDurationSecs = float64(s.durSum) / float64(s.durN)
			si.MinDurationSecs = s.durMin
			si.MaxDurationSecs = s.durMax
			if si.MeanDurationSecs > 0 {
				si.MeanSpeedKmh = si.DistanceKm / (si.MeanDurationSecs / 3600.0)
			}
		}

		ret = append(ret, si)
	}

	return ret
}
