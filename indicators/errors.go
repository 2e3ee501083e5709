// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	"fmt"
)

// InvalidDateError is returned when the study date cannot be parsed or
// lies wholly outside the feed's service period. Fatal, no tables are
// produced.
type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid study date '%s': %s", e.Value, e.Reason)
}

// FeedIntegrityError is returned when an entity references another one
// that is missing from its table. Fatal, no tables are produced.
type FeedIntegrityError struct {
	Entity  string
	Id      string
	Missing string
}

func (e *FeedIntegrityError) Error() string {
	return fmt.Sprintf("%s '%s' references a %s missing from the feed", e.Entity, e.Id, e.Missing)
}

// DiagnosticKind classifies non-fatal conditions found while building
// the tables.
type DiagnosticKind int

const (
	// DegenerateGeometry marks a zero-length shape clip, the affected
	// occurrence used the straight-line fallback instead.
	DegenerateGeometry DiagnosticKind = iota
)

// A Diagnostic records a non-fatal data quality issue. Diagnostics are
// accumulated and returned alongside the result tables, they never abort
// a run.
type Diagnostic struct {
	Kind   DiagnosticKind
	TripId string
	FromId string
	ToId   string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DegenerateGeometry:
		return fmt.Sprintf("trip '%s': zero-length shape clip between stops '%s' and '%s', used straight line", d.TripId, d.FromId, d.ToId)
	}
	return fmt.Sprintf("trip '%s': unknown condition between stops '%s' and '%s'", d.TripId, d.FromId, d.ToId)
}
