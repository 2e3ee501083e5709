// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"github.com/patrickbr/gtfsparser/gtfs"
	"testing"
)

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		routeType int16
		mode      Mode
	}{
		{0, ModeTram},
		{3, ModeBus},
		{1, ModeOther},
		{2, ModeOther},
		{4, ModeOther},
		{700, ModeBus},  // extended bus service
		{704, ModeBus},  // extended local bus service
		{900, ModeTram}, // extended tram service
	}

	for _, test := range tests {
		r := &gtfs.Route{Id: "r", Type: test.routeType}
		if m := ClassifyRoute(r); m != test.mode {
			t.Errorf("route type %d: expected %s, got %s", test.routeType, test.mode, m)
		}
	}
}

func TestParseModes(t *testing.T) {
	modes, err := ParseModes("bus,tram")

	if err != nil {
		t.Error(err)
	}

	if !modes[ModeBus] || !modes[ModeTram] {
		t.Error(modes)
	}

	modes, err = ParseModes("tram")

	if err != nil {
		t.Error(err)
	}

	if modes[ModeBus] || !modes[ModeTram] {
		t.Error(modes)
	}

	if _, err := ParseModes("bus,metro"); err == nil {
		t.Error("expected error for unsupported mode")
	}
}
