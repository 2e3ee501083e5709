// Copyright 2025 The gtfsindic authors
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"fmt"
	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfswriter"
	flag "github.com/spf13/pflag"
	"github.com/urbalyse/gtfsindic/indicators"
	"os"
	"path"
	"path/filepath"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gtfsindic - per-stop and per-segment transit network indicators from a GTFS feed\n\nUsage:\n\n  %s [<options>] -d <date> <input GTFS>\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	outputPath := flag.StringP("output", "o", "indic-out", "output directory for the indicator tables")
	dateStr := flag.StringP("date", "d", "", "study date, as YYYYMMDD")
	modesStr := flag.StringP("modes", "m", "bus,tram", "comma-separated mode filter, subset of bus,tram")
	useParentStations := flag.BoolP("parent-stations", "P", false, "aggregate stops to their parent stations")
	filteredFeedPath := flag.StringP("filtered-feed", "", "", "also write the active, mode-filtered sub-feed as GTFS to this directory or zip file (must end with .zip)")

	assumeCleanCsv := flag.BoolP("assume-clean-csv", "", false, "assume clean csv (no leading spaces, clean line breaks)")
	useDefaultValuesOnError := flag.BoolP("default-on-errs", "e", false, "if non-required fields have errors, fall back to the default values")
	dropErroneousEntities := flag.BoolP("drop-errs", "D", false, "drop erroneous entries from feed")
	fixZip := flag.BoolP("fix-zip", "z", false, "try to fix some errors in the ZIP file directory hierarchy")
	emptyStrRepl := flag.StringP("empty-str-repl", "p", "", "string to use if a non-critical required string field is empty (like stop_name, agency_name, ...)")
	showWarnings := flag.BoolP("show-warnings", "W", false, "show warnings")
	help := flag.BoolP("help", "?", false, "this message")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	gtfsPaths := flag.Args()

	if len(gtfsPaths) == 0 {
		fmt.Fprintln(os.Stderr, "No GTFS location specified, see --help")
		os.Exit(1)
	}

	if len(*dateStr) == 0 {
		fmt.Fprintln(os.Stderr, "No study date specified, see --help")
		os.Exit(1)
	}

	date, err := indicators.ParseDate(*dateStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	modes, err := indicators.ParseModes(*modesStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}

	feed := gtfsparser.NewFeed()
	opts := gtfsparser.ParseOptions{UseDefValueOnError: false, DropErroneous: false, DryRun: false, CheckNullCoordinates: false, EmptyStringRepl: "", ZipFix: false, AssumeCleanCsv: *assumeCleanCsv}
	opts.DropErroneous = *dropErroneousEntities
	opts.UseDefValueOnError = *useDefaultValuesOnError
	opts.EmptyStringRepl = *emptyStrRepl
	opts.ZipFix = *fixZip
	opts.ShowWarnings = *showWarnings
	feed.SetParseOpts(opts)

	fmt.Fprintf(os.Stdout, "Parsing GTFS feed in '%s' ...", gtfsPaths[0])
	if opts.ShowWarnings {
		fmt.Fprintf(os.Stdout, "\n")
	}
	e := feed.Parse(gtfsPaths[0])

	if e != nil {
		fmt.Fprintf(os.Stderr, "\nError while parsing GTFS feed:\n")
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	runOpts := indicators.Options{Date: date, Modes: modes, UseParentStations: *useParentStations}

	fmt.Fprintf(os.Stdout, "Computing indicators for %s ...", *dateStr)
	res, err := indicators.Run(feed, runOpts)

	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError while computing indicators:\n")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, " done. (%d active trips, %d stops, %d segments)\n", res.ActiveTrips, len(res.Stops), len(res.Segments))

	if res.ActiveTrips == 0 {
		fmt.Fprintln(os.Stdout, "No trips are active on this date for the selected modes.")
	}

	if len(res.Diagnostics) > 0 {
		if *showWarnings {
			for _, d := range res.Diagnostics {
				fmt.Fprintln(os.Stdout, "Warning:", d.String())
			}
		} else {
			fmt.Fprintf(os.Stdout, "%d geometry warnings. Use -W to display them.\n", len(res.Diagnostics))
		}
	}

	if _, err := os.Stat(*outputPath); os.IsNotExist(err) {
		os.Mkdir(*outputPath, os.ModePerm)
	}

	fmt.Fprintf(os.Stdout, "Outputting indicator tables to '%s' ...", *outputPath)

	if err := writeStopsCSV(filepath.Join(*outputPath, "stops.csv"), res.Stops); err != nil {
		fatalWrite(err)
	}

	if err := writeSegmentsCSV(filepath.Join(*outputPath, "segments.csv"), res.Segments); err != nil {
		fatalWrite(err)
	}

	if err := writeStopsGeoJSON(filepath.Join(*outputPath, "stops.geojson"), res.Stops); err != nil {
		fatalWrite(err)
	}

	if err := writeSegmentsGeoJSON(filepath.Join(*outputPath, "segments.geojson"), res.Segments); err != nil {
		fatalWrite(err)
	}

	fmt.Fprintf(os.Stdout, " done.\n")

	if len(*filteredFeedPath) > 0 {
		if err := indicators.FilterFeed(feed, runOpts); err != nil {
			fmt.Fprintf(os.Stderr, "\nError while filtering feed:\n")
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Fprintf(os.Stdout, "Outputting filtered GTFS feed to '%s' ...", *filteredFeedPath)

		if _, err := os.Stat(*filteredFeedPath); os.IsNotExist(err) {
			if path.Ext(*filteredFeedPath) == ".zip" {
				os.Create(*filteredFeedPath)
			} else {
				os.Mkdir(*filteredFeedPath, os.ModePerm)
			}
		}

		w := gtfswriter.Writer{ZipCompressionLevel: 9, Sorted: true}
		if e := w.Write(feed, *filteredFeedPath); e != nil {
			fmt.Fprintf(os.Stderr, "\nError while writing GTFS feed in '%s':\n ", *filteredFeedPath)
			fmt.Fprintln(os.Stderr, e.Error())
			os.Exit(1)
		}

		fmt.Fprintf(os.Stdout, " done.\n")
	}
}

func fatalWrite(err error) {
	fmt.Fprintf(os.Stderr, "\nError while writing output:\n")
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
