// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"github.com/patrickbr/gtfsparser"
)

// FilterFeed reduces the feed in place to the trips active on the study
// date with a mode in the filter, then drops routes, services and shapes
// no trip references anymore. The result is the sub-feed the indicator
// tables were computed from, ready for GTFS re-export.
func FilterFeed(feed *gtfsparser.Feed, opts Options) error {
	if err := checkFeed(feed); err != nil {
		return err
	}

	active, err := ActiveTrips(feed, opts.Date)
	if err != nil {
		return err
	}

	for id, t := range feed.Trips {
		keep := false
		if _, ok := active[id]; ok {
			m := ClassifyRoute(t.Route)
			keep = m != ModeOther && opts.Modes[m]
		}
		if !keep {
			feed.DeleteTrip(id)
		}
	}

	usedRoutes := make(map[string]bool)
	usedServices := make(map[string]bool)
	usedShapes := make(map[string]bool)

	for _, t := range feed.Trips {
		usedRoutes[t.Route.Id] = true
		usedServices[t.Service.Id()] = true
		if t.Shape != nil {
			usedShapes[t.Shape.Id] = true
		}
	}

	for id := range feed.Routes {
		if !usedRoutes[id] {
			feed.DeleteRoute(id)
		}
	}

	for id := range feed.Services {
		if !usedServices[id] {
			feed.DeleteService(id)
		}
	}

	for id := range feed.Shapes {
		if !usedShapes[id] {
			feed.DeleteShape(id)
		}
	}

	return nil
}
