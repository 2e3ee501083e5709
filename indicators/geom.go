// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package indicators

import (
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"math"
)

var DEG_TO_RAD float64 = 0.017453292519943295769236907684886127134428718885417254560
var DEG_TO_RAD32 float32 = float32(DEG_TO_RAD)

// Convert latitude/longitude to web mercator coordinates
func latLngToWebMerc(lat float32, lng float32) (float64, float64) {
	x := 6378137.0 * lng * DEG_TO_RAD32
	a := float64(lat * DEG_TO_RAD32)

	lng = x
	lat = float32(3189068.5 * math.Log((1.0+math.Sin(a))/(1.0-math.Sin(a))))
	return float64(lng), float64(lat)
}

// Unproject web mercator coordinates to lat/lon values
func webMercToLatLng(x float64, y float64) (float32, float32) {
	a := 6378137.0

	latitude := (1.5707963267948966 - (2.0 * math.Atan(math.Exp((-1.0*y)/a)))) / DEG_TO_RAD
	longitude := ((x / a) * 57.295779513082323) - ((math.Floor((((x / a) * 57.295779513082323) + 180.0) / 360.0)) * 360.0)

	return float32(latitude), float32(longitude)
}

// Snap the point p to line segment [a, b], also returning the relative
// progression of the snapped point on the segment
func snapToWithProgr(px, py, lax, lay, lbx, lby float64) (float64, float64, float64) {
	d := dist(lax, lay, lbx, lby) * dist(lax, lay, lbx, lby)

	if d == 0 {
		return lax, lay, 0
	}
	t := float64((px-lax)*(lbx-lax) + (py-lay)*(lby-lay)) / d
	if t < 0 {
		return lax, lay, 0
	} else if t > 1 {
		return lbx, lby, 1
	}

	return lax + t*(lbx-lax), lay + t*(lby-lay), t
}

// Calculate the distance between two points (x1, y1) and (x2, y2)
func dist(x1 float64, y1 float64, x2 float64, y2 float64) float64 {
	return math.Sqrt(float64((x2-x1)*(x2-x1) + (y2-y1)*(y2-y1)))
}

// Calculate the distance in meter between two lat,lng pairs
func haversine(latA float64, lonA float64, latB float64, lonB float64) float64 {
	latA = latA * DEG_TO_RAD
	lonA = lonA * DEG_TO_RAD
	latB = latB * DEG_TO_RAD
	lonB = lonB * DEG_TO_RAD

	dlat := latB - latA
	dlon := lonB - lonA

	sindlat := math.Sin(dlat / 2)
	sindlon := math.Sin(dlon / 2)

	a := sindlat*sindlat + math.Cos(latA)*math.Cos(latB)*sindlon*sindlon

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return c * 6378137.0
}

// polyline is a shape projected to web mercator, together with the
// cumulative along-line distance at every vertex.
type polyline struct {
	pts [][2]float64
	cum []float64
}

func newPolyline(shp *gtfs.Shape) polyline {
	pl := polyline{make([][2]float64, 0, len(shp.Points)), make([]float64, 0, len(shp.Points))}

	total := 0.0
	for i, p := range shp.Points {
		x, y := latLngToWebMerc(p.Lat, p.Lon)
		if i > 0 {
			prev := pl.pts[i-1]
			total += dist(prev[0], prev[1], x, y)
		}
		pl.pts = append(pl.pts, [2]float64{x, y})
		pl.cum = append(pl.cum, total)
	}

	return pl
}

// project snaps (px, py) to the nearest point of the polyline whose
// along-line position is not before minPos. Equal distances resolve to
// the smaller position, so clips stay monotonic even over duplicate or
// self-intersecting shape points.
func (pl polyline) project(px, py, minPos float64) float64 {
	best := math.Inf(1)
	bestPos := minPos

	for i := 1; i < len(pl.pts); i++ {
		if pl.cum[i] < minPos {
			continue
		}

		a := pl.pts[i-1]
		b := pl.pts[i]
		sx, sy, t := snapToWithProgr(px, py, a[0], a[1], b[0], b[1])
		pos := pl.cum[i-1] + t*(pl.cum[i]-pl.cum[i-1])

		if pos < minPos {
			pos = minPos
			sx, sy = pl.at(pos)
		}

		d := dist(px, py, sx, sy)
		if d < best {
			best = d
			bestPos = pos
		}
	}

	return bestPos
}

// at interpolates the point at along-line position pos.
func (pl polyline) at(pos float64) (float64, float64) {
	for i := 1; i < len(pl.pts); i++ {
		if pl.cum[i] >= pos {
			seg := pl.cum[i] - pl.cum[i-1]
			if seg == 0 {
				return pl.pts[i][0], pl.pts[i][1]
			}
			t := (pos - pl.cum[i-1]) / seg
			return pl.pts[i-1][0] + t*(pl.pts[i][0]-pl.pts[i-1][0]), pl.pts[i-1][1] + t*(pl.pts[i][1]-pl.pts[i-1][1])
		}
	}

	last := pl.pts[len(pl.pts)-1]
	return last[0], last[1]
}

// clip extracts the sub-path between two along-line positions as lon/lat
// pairs. Callers must pass from <= to.
func (pl polyline) clip(from, to float64) [][]float64 {
	path := make([][]float64, 0)

	x, y := pl.at(from)
	path = append(path, lonLat(x, y))

	for i := range pl.pts {
		if pl.cum[i] > from && pl.cum[i] < to {
			path = append(path, lonLat(pl.pts[i][0], pl.pts[i][1]))
		}
	}

	x, y = pl.at(to)
	path = append(path, lonLat(x, y))

	return path
}

func lonLat(x, y float64) []float64 {
	lat, lng := webMercToLatLng(x, y)
	return []float64{float64(lng), float64(lat)}
}

// pathLengthKm measures a lon/lat path with the haversine formula.
func pathLengthKm(path [][]float64) float64 {
	l := 0.0
	for i := 1; i < len(path); i++ {
		l += haversine(path[i-1][1], path[i-1][0], path[i][1], path[i][0])
	}
	return l / 1000.0
}
