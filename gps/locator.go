// Package gps converts GPS fixes into Maidenhead grid locators for beacon
// and OOK48 message templates.
package gps

import "math"

// Length is the number of Maidenhead characters to render. The reference
// firmware supports 6, 8 or 10 (SET:loclen).
type Length int

const (
	Length6  Length = 6
	Length8  Length = 8
	Length10 Length = 10
)

// Locator is a decimal lat/lon fix paired with the rendered locator length.
type Locator struct {
	Latitude  float64
	Longitude float64
	Precision Length
}

// Fix returns a Locator for the given decimal degrees.
func Fix(latitude, longitude float64, precision Length) Locator {
	return Locator{Latitude: latitude, Longitude: longitude, Precision: precision}
}

// String renders the ten-character Maidenhead locator for loc and truncates
// it to loc.Precision, matching the reference firmware's convertToMaid: the
// field-pair-subsquare-extended digits are computed independently for
// longitude (even positions) and latitude (odd positions).
func (loc Locator) String() string {
	var grid [10]byte

	d := 0.5 * (180.0 + loc.Longitude)
	ii := int(0.1 * d)
	grid[0] = byte(ii + 65)
	rj := d - 10.0*float64(ii)
	j := int(rj)
	grid[2] = byte(j + 48)
	rk := 24.0 * (rj - float64(j))
	k := int(rk)
	grid[4] = byte(k + 65)
	rl := 10.0 * (rk - float64(k))
	l := int(rl)
	grid[6] = byte(l + 48)
	rm := 24.0 * (rl - float64(l))
	m := int(rm)
	grid[8] = byte(m + 65)

	d = 90.0 + loc.Latitude
	ii = int(0.1 * d)
	grid[1] = byte(ii + 65)
	rj = d - 10.0*float64(ii)
	j = int(rj)
	grid[3] = byte(j + 48)
	rk = 24.0 * (rj - float64(j))
	k = int(rk)
	grid[5] = byte(k + 65)
	rl = 10.0 * (rk - float64(k))
	l = int(rl)
	grid[7] = byte(l + 48)
	rm = 24.0 * (rl - float64(l))
	m = int(rm)
	grid[9] = byte(m + 65)

	n := int(loc.Precision)
	if n > len(grid) {
		n = len(grid)
	}
	if n <= 0 {
		n = len(grid)
	}
	return string(grid[:n])
}

// NoFix is the placeholder locator rendered while no valid GPS sentence has
// been received, matching the firmware's dash-filled qthLocator.
func NoFix(precision Length) string {
	dashes := "----------"
	n := int(precision)
	if n <= 0 || n > len(dashes) {
		n = len(dashes)
	}
	return dashes[:n]
}

// ConvertToDecimalDegrees converts an NMEA ddmm.mmm (or dddmm.mmm) field into
// decimal degrees, matching the reference firmware's convertToDecimalDegrees.
func ConvertToDecimalDegrees(dddmmMmm float64) float64 {
	degrees := math.Trunc(dddmmMmm / 100)
	minutes := dddmmMmm - degrees*100
	return degrees + minutes/60.0
}
