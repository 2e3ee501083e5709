// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"fmt"
	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"strconv"
)

// ParseDate parses a YYYYMMDD study date.
func ParseDate(str string) (gtfs.Date, error) {
	var day, month, year int
	var e error
	if len(str) != 8 {
		e = fmt.Errorf("has %d characters, expected 8", len(str))
	}
	if e == nil {
		day, e = strconv.Atoi(str[6:8])
	}
	if e == nil {
		month, e = strconv.Atoi(str[4:6])
	}
	if e == nil {
		year, e = strconv.Atoi(str[0:4])
	}

	if e == nil && (day < 1 || day > 31) {
		e = fmt.Errorf("day must be in the range [1, 31]")
	}

	if e == nil && (month < 1 || month > 12) {
		e = fmt.Errorf("month must be in the range [1, 12]")
	}

	if e == nil && (year < 1900 || year > (1900+255)) {
		e = fmt.Errorf("date must be in the range [19000101, 21551231]")
	}

	if e != nil {
		return gtfs.Date{}, &InvalidDateError{Value: str, Reason: e.Error()}
	}

	return gtfs.NewDate(uint8(day), uint8(month), uint16(year)), nil
}

// DateString formats a date back to YYYYMMDD.
func DateString(d gtfs.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year(), d.Month(), d.Day())
}

// serviceActiveOn checks whether a service runs on a date. An exception
// for the exact date always wins, otherwise the weekday bit within the
// validity range decides. Services without a weekly pattern run only
// through add-exceptions.
func serviceActiveOn(s *gtfs.Service, date gtfs.Date) bool {
	if added, ok := s.Exceptions()[date]; ok {
		return added
	}

	if s.RawDaymap() == 0 {
		return false
	}

	t := date.GetTime()
	if t.Before(s.Start_date().GetTime()) || t.After(s.End_date().GetTime()) {
		return false
	}

	return s.Daymap(int(t.Weekday()))
}

// ActiveTrips resolves the set of trips whose service is active on the
// study date. An empty set is a valid result, but a date wholly outside
// every service's defined range is an InvalidDateError.
func ActiveTrips(feed *gtfsparser.Feed, date gtfs.Date) (map[string]*gtfs.Trip, error) {
	if len(feed.Services) > 0 && !dateInFeedPeriod(feed, date) {
		return nil, &InvalidDateError{Value: DateString(date), Reason: "outside the feed's service period"}
	}

	active := make(map[string]*gtfs.Trip)
	for id, t := range feed.Trips {
		if t.Service != nil && serviceActiveOn(t.Service, date) {
			active[id] = t
		}
	}

	return active, nil
}

func dateInFeedPeriod(feed *gtfsparser.Feed, date gtfs.Date) bool {
	t := date.GetTime()
	for _, s := range feed.Services {
		first := s.GetFirstDefinedDate()
		last := s.GetLastDefinedDate()
		if !t.Before(first.GetTime()) && !t.After(last.GetTime()) {
			return true
		}
	}
	return false
}
