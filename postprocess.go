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
	"strings"
)

// Reader is the uniform accessor implemented by every format reader. The
// dataset is populated during construction; a reader whose constructor
// returned an error is never handed out, so Data always returns a fully
// built dataset.
type Reader interface {
	Data() *Dataset
}

// Postprocess applies the generic normalization pass shared by readers
// that do not perform fully custom mapping: first the caller-supplied
// override mapping (canonical key -> source column name), then
// case-insensitive registry alias resolution skipping any canonical key
// already present, and finally a registry-default metadata fill for every
// variable and the time coordinate. Applying the pass twice yields the
// same result as applying it once.
func Postprocess(ds *Dataset, mapping map[string]string) {
	for key, source := range mapping {
		// An occupied canonical key is never overwritten.
		if ds.Has(source) && !ds.Has(key) {
			ds.Rename(source, key)
		}
	}
	renameToCanonical(ds)
	fillDefaultMetadata(ds)
}

// renameToCanonical renames variables whose names match a registry alias
// to the corresponding canonical key. Lookup is case-insensitive; within
// each canonical key only the first matching alias is renamed, and keys
// already present in the dataset are skipped.
func renameToCanonical(ds *Dataset) {
	lower := make(map[string]string, len(ds.VarNames()))
	for _, name := range ds.VarNames() {
		lower[strings.ToLower(name)] = name
	}
	for _, entry := range defaultMappings {
		if entry.key == TimeKey || ds.Has(entry.key) {
			continue
		}
		for _, alias := range entry.aliases {
			if original, ok := lower[strings.ToLower(alias)]; ok {
				ds.Rename(original, entry.key)
				break
			}
		}
	}
}

// fillDefaultMetadata merges registry-default metadata into every variable
// and the time coordinate, without overwriting attributes already set.
func fillDefaultMetadata(ds *Dataset) {
	for _, key := range ds.VarNames() {
		ds.AssignMetadata(key, "", "")
	}
	ds.AssignMetadata(TimeKey, "", "")
}

// validateRequired checks that the given set of resolved names contains a
// time channel and either pressure or depth. The entity string names the
// input being validated for the error message.
func validateRequired(names map[string]bool, entity string) error {
	if !names[TimeKey] && !names[JulianDayKey] && !names[SecondsSince2000Key] &&
		!names[SecondsSince1970Key] && !names[ElapsedSecondsKey] {
		return fmt.Errorf("ctdtools: %w: no time channel in %s", ErrMissingParameter, entity)
	}
	if !names[PressureKey] && !names[DepthKey] {
		return fmt.Errorf("ctdtools: %w: neither %q nor %q in %s",
			ErrMissingParameter, PressureKey, DepthKey, entity)
	}
	return nil
}
