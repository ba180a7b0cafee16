/*
Copyright © 2024 the ctd-tools authors.
This file is part of ctd-tools.

ctd-tools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ctd-tools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ctd-tools.  If not, see <http://www.gnu.org/licenses/>.
*/

package ctdtools

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/ctessum/cdf"
)

// NetCDFReader loads an already-canonical-shaped NetCDF file without
// transformation beyond widening to float64 and validating that the
// required parameters are present. The time variable is expected to hold
// seconds since 1970-01-01.
type NetCDFReader struct {
	data *Dataset
}

// NewNetCDFReader reads and validates the NetCDF file at path.
func NewNetCDFReader(path string) (*NetCDFReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: opening netCDF file %s: %w", path, err)
	}
	defer f.Close()
	nc, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: opening netCDF file %s: %w", path, err)
	}

	names := nc.Header.Variables()
	present := make(map[string]bool, len(names))
	for _, v := range names {
		present[v] = true
	}
	if err := validateRequired(present, "netCDF file"); err != nil {
		return nil, err
	}
	// Only the canonical seconds-since-1970 time variable is decodable
	// here; the raw instrument channels (timeJ and friends) need header
	// context a netCDF file does not carry.
	if !present[TimeKey] {
		return nil, fmt.Errorf("ctdtools: %w: no %q variable in netCDF file %s",
			ErrUndecodableTime, TimeKey, path)
	}

	rawTime, err := readNetCDFVar(nc, TimeKey)
	if err != nil {
		return nil, err
	}
	times, err := DecodeTime(rawTime, EncodingSecondsSince1970, epoch1970)
	if err != nil {
		return nil, err
	}

	latitude := netcdfCoordinate(nc, present, LatitudeKey)
	longitude := netcdfCoordinate(nc, present, LongitudeKey)

	ds := NewDataset(times, nil, latitude, longitude)
	for _, v := range names {
		if v == TimeKey {
			continue
		}
		values, err := readNetCDFVar(nc, v)
		if err != nil {
			return nil, err
		}
		if values == nil {
			continue // not a numeric variable
		}
		ds.AssignVariable(v, values)
		ds.AssignMetadata(v, netcdfStringAttr(nc, v, "long_name"), netcdfStringAttr(nc, v, "units"))
	}
	fillDefaultMetadata(ds)

	return &NetCDFReader{data: ds}, nil
}

// Data returns the loaded dataset.
func (r *NetCDFReader) Data() *Dataset { return r.data }

// readNetCDFVar reads a numeric variable from a NetCDF file, widening to
// float64. It returns nil for non-numeric variables.
func readNetCDFVar(nc *cdf.File, v string) ([]float64, error) {
	r := nc.Reader(v, nil, nil)
	buf := r.Zero(-1)
	switch buf.(type) {
	case []float32, []float64, []int32:
	default:
		return nil, nil
	}
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("ctdtools: reading netCDF variable %s: %w", v, err)
	}
	switch data := buf.(type) {
	case []float64:
		return data, nil
	case []float32:
		out := make([]float64, len(data))
		for i, val := range data {
			out[i] = float64(val)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(data))
		for i, val := range data {
			out[i] = float64(val)
		}
		return out, nil
	}
	return nil, nil
}

// netcdfCoordinate resolves a scalar latitude or longitude, preferring a
// global attribute and falling back to the first value of a variable of
// the same name. NaN marks an unknown coordinate.
func netcdfCoordinate(nc *cdf.File, present map[string]bool, key string) float64 {
	if v, ok := netcdfFloatAttr(nc, "", key); ok {
		return v
	}
	if present[key] {
		if values, err := readNetCDFVar(nc, key); err == nil && len(values) > 0 {
			return values[0]
		}
	}
	return math.NaN()
}

// netcdfStringAttr reads a string attribute, returning "" when absent.
func netcdfStringAttr(nc *cdf.File, v, name string) string {
	if attr, ok := nc.Header.GetAttribute(v, name).(string); ok {
		return attr
	}
	return ""
}

// netcdfFloatAttr reads a numeric attribute stored as a float slice or a
// formatted string.
func netcdfFloatAttr(nc *cdf.File, v, name string) (float64, bool) {
	switch attr := nc.Header.GetAttribute(v, name).(type) {
	case []float64:
		if len(attr) > 0 {
			return attr[0], true
		}
	case []float32:
		if len(attr) > 0 {
			return float64(attr[0]), true
		}
	case string:
		if f, err := strconv.ParseFloat(attr, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
