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
	"errors"
	"reflect"
	"testing"
)

func TestPostprocessRenames(t *testing.T) {
	ds := NewDataset(testTimes(1), nil, nanFloat, nanFloat)
	ds.AssignVariable("TEMP", []float64{10})   // registry alias, wrong case
	ds.AssignVariable("my_sal", []float64{35}) // covered by the override mapping
	ds.AssignVariable("other", []float64{1})   // unknown, left alone

	Postprocess(ds, map[string]string{SalinityKey: "my_sal"})

	want := []string{TemperatureKey, SalinityKey, "other"}
	if got := ds.VarNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("VarNames() = %v; want %v", got, want)
	}
	temp, _ := ds.Var(TemperatureKey)
	if temp.Attrs["units"] != "degC" {
		t.Errorf("temperature units = %q; want degC", temp.Attrs["units"])
	}
}

// The override mapping wins over registry alias resolution.
func TestPostprocessMappingPrecedence(t *testing.T) {
	ds := NewDataset(testTimes(1), nil, nanFloat, nanFloat)
	ds.AssignVariable("special", []float64{9.9})
	ds.AssignVariable("Temp", []float64{10}) // registry alias for the same key

	Postprocess(ds, map[string]string{TemperatureKey: "special"})

	temp, _ := ds.Var(TemperatureKey)
	if temp.Values[0] != 9.9 {
		t.Errorf("temperature = %v; want the mapped column", temp.Values[0])
	}
	if !ds.Has("Temp") {
		t.Error("unmapped alias column renamed despite the canonical key being taken")
	}
}

// Only the first matching alias per canonical key is renamed.
func TestPostprocessFirstAliasWins(t *testing.T) {
	ds := NewDataset(testTimes(1), nil, nanFloat, nanFloat)
	ds.AssignVariable("t090C", []float64{10})
	ds.AssignVariable("t190C", []float64{10.1})

	Postprocess(ds, nil)

	if !ds.Has(TemperatureKey) || !ds.Has("t190C") {
		t.Errorf("VarNames() = %v; want temperature and untouched t190C", ds.VarNames())
	}
}

// A mapping whose canonical key is already a variable must not clobber
// it or duplicate the name listing.
func TestPostprocessMappingOccupiedKey(t *testing.T) {
	ds := NewDataset(testTimes(1), nil, nanFloat, nanFloat)
	ds.AssignVariable(TemperatureKey, []float64{10})
	ds.AssignVariable("Temp", []float64{99})

	Postprocess(ds, map[string]string{TemperatureKey: "Temp"})

	temp, _ := ds.Var(TemperatureKey)
	if temp.Values[0] != 10 {
		t.Errorf("temperature[0] = %v; want the original variable kept", temp.Values[0])
	}
	if !ds.Has("Temp") {
		t.Error("source column dropped instead of left in place")
	}
	names := ds.VarNames()
	seen := map[string]int{}
	for _, name := range names {
		seen[name]++
	}
	if seen[TemperatureKey] != 1 {
		t.Errorf("VarNames() = %v; temperature listed %d times", names, seen[TemperatureKey])
	}
}

func TestPostprocessIdempotent(t *testing.T) {
	ds := NewDataset(testTimes(1), nil, nanFloat, nanFloat)
	ds.AssignVariable("Temp", []float64{10})
	ds.AssignVariable("Press", []float64{100})

	Postprocess(ds, nil)
	once := ds.VarNames()
	Postprocess(ds, nil)
	if got := ds.VarNames(); !reflect.DeepEqual(got, once) {
		t.Errorf("second pass changed names: %v != %v", got, once)
	}
}

func TestValidateRequired(t *testing.T) {
	ok := map[string]bool{ElapsedSecondsKey: true, PressureKey: true}
	if err := validateRequired(ok, "test input"); err != nil {
		t.Errorf("valid set rejected: %v", err)
	}

	noTime := map[string]bool{PressureKey: true}
	if err := validateRequired(noTime, "test input"); !errors.Is(err, ErrMissingParameter) {
		t.Errorf("missing time channel: err = %v; want ErrMissingParameter", err)
	}

	noPressure := map[string]bool{TimeKey: true, TemperatureKey: true}
	if err := validateRequired(noPressure, "test input"); !errors.Is(err, ErrMissingParameter) {
		t.Errorf("missing pressure/depth: err = %v; want ErrMissingParameter", err)
	}

	depthOnly := map[string]bool{TimeKey: true, DepthKey: true}
	if err := validateRequired(depthOnly, "test input"); err != nil {
		t.Errorf("depth without pressure rejected: %v", err)
	}
}
