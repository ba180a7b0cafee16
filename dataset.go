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
	"math"
	"strconv"
	"strings"
	"time"
)

const createTimeFormat = "2006-01-02T15:04:05"

// nanFloat marks unknown scalar attributes such as latitude and longitude.
var nanFloat = math.NaN()

// Variable is a named data array aligned to the dataset's time dimension,
// with attached metadata such as "units" and "long_name".
type Variable struct {
	Values []float64
	Attrs  map[string]string
}

// Dataset is the canonical, time-indexed representation every format
// reader produces. It has exactly one dimension (time); every variable is
// aligned to it. Depth is a coordinate stored as the "depth" variable.
// Latitude and longitude are dataset-level attributes (NaN when the source
// file does not provide them).
type Dataset struct {
	Time      []time.Time
	TimeAttrs map[string]string

	Latitude  float64
	Longitude float64

	// Attrs holds dataset-level attributes: CreateTime, DataType and,
	// when known, latitude and longitude.
	Attrs map[string]string

	vars  map[string]*Variable
	order []string
}

// NewDataset creates the canonical dataset template: the time coordinate,
// an optional depth coordinate aligned to it, and the dataset-level
// attributes. Pass NaN for unknown latitude or longitude, and nil for a
// missing depth coordinate.
func NewDataset(times []time.Time, depth []float64, latitude, longitude float64) *Dataset {
	ds := &Dataset{
		Time:      times,
		TimeAttrs: map[string]string{},
		Latitude:  latitude,
		Longitude: longitude,
		Attrs: map[string]string{
			"CreateTime": time.Now().Format(createTimeFormat),
			"DataType":   "TimeSeries",
		},
		vars: map[string]*Variable{},
	}
	if !math.IsNaN(latitude) {
		ds.Attrs["latitude"] = strconv.FormatFloat(latitude, 'f', -1, 64)
	}
	if !math.IsNaN(longitude) {
		ds.Attrs["longitude"] = strconv.FormatFloat(longitude, 'f', -1, 64)
	}
	if depth != nil {
		ds.AssignVariable(DepthKey, depth)
	}
	return ds
}

// Len returns the number of samples along the time dimension.
func (ds *Dataset) Len() int { return len(ds.Time) }

// AssignVariable attaches a data array aligned to the time dimension under
// the given key, with empty metadata. An existing variable of the same name
// is replaced, keeping its position.
func (ds *Dataset) AssignVariable(key string, values []float64) {
	if _, ok := ds.vars[key]; !ok {
		ds.order = append(ds.order, key)
	}
	ds.vars[key] = &Variable{Values: values, Attrs: map[string]string{}}
}

// Var returns the variable stored under key.
func (ds *Dataset) Var(key string) (*Variable, bool) {
	v, ok := ds.vars[key]
	return v, ok
}

// Has reports whether a variable named key exists.
func (ds *Dataset) Has(key string) bool {
	_, ok := ds.vars[key]
	return ok
}

// VarNames returns the variable names in insertion order.
func (ds *Dataset) VarNames() []string {
	out := make([]string, len(ds.order))
	copy(out, ds.order)
	return out
}

// Rename moves the variable stored under old to the name new, keeping its
// position and metadata. It refuses to overwrite an existing variable
// named new, and reports whether the rename happened.
func (ds *Dataset) Rename(old, new string) bool {
	v, ok := ds.vars[old]
	if !ok {
		return false
	}
	if _, taken := ds.vars[new]; taken {
		return false
	}
	delete(ds.vars, old)
	ds.vars[new] = v
	for i, name := range ds.order {
		if name == old {
			ds.order[i] = new
			break
		}
	}
	return true
}

// AssignMetadata merges metadata for the variable (or the time coordinate)
// stored under key. The merge is three-tiered: registry defaults fill only
// attributes not already present, then an explicit unit sets "units", then
// an explicit label sets "long_name". If both label and unit are given and
// the bracketed unit appears inside the label, it is stripped before the
// label is stored. Keys with no matching variable are ignored.
func (ds *Dataset) AssignMetadata(key, label, unit string) {
	attrs := ds.attrsFor(key)
	if attrs == nil {
		return
	}
	for name, value := range defaultMetadata[key] {
		if _, set := attrs[name]; !set {
			attrs[name] = value
		}
	}
	if unit != "" {
		attrs["units"] = unit
	}
	if label != "" {
		if unit != "" {
			label = strings.TrimSpace(strings.ReplaceAll(label, "["+unit+"]", ""))
		}
		attrs["long_name"] = label
	}
}

func (ds *Dataset) attrsFor(key string) map[string]string {
	if key == TimeKey {
		return ds.TimeAttrs
	}
	if v, ok := ds.vars[key]; ok {
		return v.Attrs
	}
	return nil
}

// ReplaceBadValues substitutes NaN for every occurrence of the
// header-declared bad-value sentinel across all variables, preserving the
// dataset shape. The comparison is exact; see the design notes.
func (ds *Dataset) ReplaceBadValues(sentinel float64) {
	for _, v := range ds.vars {
		for i, val := range v.Values {
			if val == sentinel {
				v.Values[i] = math.NaN()
			}
		}
	}
}
