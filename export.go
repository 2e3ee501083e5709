// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"encoding/csv"
	"fmt"
	geojson "github.com/paulmach/go.geojson"
	"github.com/urbalyse/gtfsindic/indicators"
	"os"
	"strconv"
)

// The CSV tables carry the indicator columns only, geometry goes into
// the GeoJSON exports.

func writeStopsCSV(path string, stops []*indicators.StopIndicator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"stop_id", "stop_name", "stop_lat", "stop_lon", "mode", "num_routes", "num_passages", "first_departure", "last_departure", "amplitude_secs", "min_headway_secs", "median_headway_secs", "max_headway_secs"})

	for _, si := range stops {
		rec := []string{
			si.Stop.Id,
			si.Stop.Name,
			formatCoord(si.Stop.Lat),
			formatCoord(si.Stop.Lon),
			si.Mode.String(),
			strconv.Itoa(len(si.Routes)),
			strconv.Itoa(si.Passages),
			indicators.TimeString(si.First),
			indicators.TimeString(si.Last),
			strconv.Itoa(si.AmplitudeSecs()),
			"", "", "",
		}
		if si.HasHeadways() {
			rec[10] = strconv.Itoa(si.MinHeadway)
			rec[11] = strconv.Itoa(si.MedianHeadway)
			rec[12] = strconv.Itoa(si.MaxHeadway)
		}
		w.Write(rec)
	}

	w.Flush()
	return w.Error()
}

func writeSegmentsCSV(path string, segs []*indicators.SegmentIndicator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"segment_id", "from_stop_id", "from_stop_name", "to_stop_id", "to_stop_name", "mode", "num_routes", "num_traversals", "traversals_per_route", "distance_km", "mean_duration_secs", "min_duration_secs", "max_duration_secs", "mean_speed_kmh", "geom_source"})

	for _, si := range segs {
		rec := []string{
			si.Id,
			si.From.Id,
			si.From.Name,
			si.To.Id,
			si.To.Name,
			si.Mode.String(),
			strconv.Itoa(len(si.Routes)),
			strconv.Itoa(si.Traversals),
			fmt.Sprintf("%.2f", si.TraversalsPerRoute),
			fmt.Sprintf("%.3f", si.DistanceKm),
			"", "", "", "",
			si.GeomSource.String(),
		}
		if si.HasDurations() {
			rec[10] = fmt.Sprintf("%.1f", si.MeanDurationSecs)
			rec[11] = strconv.Itoa(si.MinDurationSecs)
			rec[12] = strconv.Itoa(si.MaxDurationSecs)
			rec[13] = fmt.Sprintf("%.1f", si.MeanSpeedKmh)
		}
		w.Write(rec)
	}

	w.Flush()
	return w.Error()
}

func writeStopsGeoJSON(path string, stops []*indicators.StopIndicator) error {
	fc := geojson.NewFeatureCollection()

	for _, si := range stops {
		f := geojson.NewPointFeature([]float64{float64(si.Stop.Lon), float64(si.Stop.Lat)})
		f.SetProperty("stop_id", si.Stop.Id)
		f.SetProperty("stop_name", si.Stop.Name)
		f.SetProperty("mode", si.Mode.String())
		f.SetProperty("num_routes", len(si.Routes))
		f.SetProperty("num_passages", si.Passages)
		f.SetProperty("first_departure", indicators.TimeString(si.First))
		f.SetProperty("last_departure", indicators.TimeString(si.Last))
		f.SetProperty("amplitude_secs", si.AmplitudeSecs())
		if si.HasHeadways() {
			f.SetProperty("min_headway_secs", si.MinHeadway)
			f.SetProperty("median_headway_secs", si.MedianHeadway)
			f.SetProperty("max_headway_secs", si.MaxHeadway)
		}
		fc.AddFeature(f)
	}

	return writeFeatureCollection(path, fc)
}

func writeSegmentsGeoJSON(path string, segs []*indicators.SegmentIndicator) error {
	fc := geojson.NewFeatureCollection()

	for _, si := range segs {
		f := geojson.NewLineStringFeature(si.Geom)
		f.SetProperty("segment_id", si.Id)
		f.SetProperty("from_stop_id", si.From.Id)
		f.SetProperty("from_stop_name", si.From.Name)
		f.SetProperty("to_stop_id", si.To.Id)
		f.SetProperty("to_stop_name", si.To.Name)
		f.SetProperty("mode", si.Mode.String())
		f.SetProperty("num_routes", len(si.Routes))
		f.SetProperty("num_traversals", si.Traversals)
		f.SetProperty("traversals_per_route", si.TraversalsPerRoute)
		f.SetProperty("distance_km", si.DistanceKm)
		f.SetProperty("geom_source", si.GeomSource.String())
		if si.HasDurations() {
			f.SetProperty("mean_duration_secs", si.MeanDurationSecs)
			f.SetProperty("mean_speed_kmh", si.MeanSpeedKmh)
		}
		fc.AddFeature(f)
	}

	return writeFeatureCollection(path, fc)
}

func writeFeatureCollection(path string, fc *geojson.FeatureCollection) error {
	json, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, json, 0644)
}

func formatCoord(c float32) string {
	return strconv.FormatFloat(float64(c), 'f', -1, 32)
}
