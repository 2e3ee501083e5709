// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"fmt"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"strings"
)

// Mode is the transport mode a route is classified into. Only bus and
// tram are analyzed, everything else is filtered out downstream.
type Mode int

const (
	ModeBus Mode = iota
	ModeTram
	ModeOther
)

func (m Mode) String() string {
	switch m {
	case ModeBus:
		return "bus"
	case ModeTram:
		return "tram"
	}
	return "other"
}

// ClassifyRoute maps a route to its mode via the standardized GTFS route
// type. Extended route types (700s bus, 900s tram, ...) are normalized
// first, unknown codes classify as ModeOther.
func ClassifyRoute(r *gtfs.Route) Mode {
	switch gtfs.GetTypeFromExtended(r.Type) {
	case 0:
		return ModeTram
	case 3:
		return ModeBus
	}
	return ModeOther
}

// ParseModes parses a comma separated mode filter like "bus,tram".
func ParseModes(s string) (map[Mode]bool, error) {
	modes := make(map[Mode]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		switch part {
		case "bus":
			modes[ModeBus] = true
		case "tram":
			modes[ModeTram] = true
		default:
			return nil, fmt.Errorf("'%s' is not a supported mode (allowed: bus, tram)", part)
		}
	}
	return modes, nil
}
