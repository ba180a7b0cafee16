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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// tobMarker begins the header line that names the data columns in a
// Sea & Sun TOB file. The two following lines carry the bracketed units
// and a separator; data rows start three lines after the marker.
const tobMarker = "; Datasets"

// tobDataOffset is the fixed distance from the marker line to the first
// data row.
const tobDataOffset = 3

// tobTimeLayouts are the layouts tried for the combined IntD/IntT
// date-time columns.
var tobTimeLayouts = []string{
	"02.01.2006 15:04:05",
	"2006-01-02 15:04:05",
}

// tobRenames maps the instrument-specific TOB column names to canonical
// keys.
var tobRenames = map[string]string{
	"SALIN":    SalinityKey,
	"Temp":     TemperatureKey,
	"Cond":     ConductivityKey,
	"Press":    PressureKey,
	"SOUND":    SpeedOfSoundKey,
	"Vbatt":    BatteryVoltageKey,
	"SIGMA":    "sigma",
	"Datasets": "sample",
}

// TOBOptions configures a TOBReader. The zero value (or a nil pointer)
// selects Latin-1 encoding and DefaultReferenceLatitude.
type TOBOptions struct {
	// Encoding overrides the Latin-1 default of Sea & Sun files.
	Encoding encoding.Encoding
	// Latitude is the deployment-site latitude used for the
	// pressure-to-depth conversion; zero selects
	// DefaultReferenceLatitude.
	Latitude float64
}

// TOBReader normalizes a Sea & Sun TOB ASCII file into the canonical
// dataset.
type TOBReader struct {
	data *Dataset
}

// NewTOBReader reads and normalizes the TOB file at path. Individual
// malformed timestamps are coerced to the missing-value marker (the zero
// time) rather than failing the whole read.
func NewTOBReader(path string, opts *TOBOptions) (*TOBReader, error) {
	enc := encoding.Encoding(charmap.ISO8859_1)
	latitude := DefaultReferenceLatitude
	if opts != nil {
		if opts.Encoding != nil {
			enc = opts.Encoding
		}
		if opts.Latitude != 0 {
			latitude = opts.Latitude
		}
	}

	lines, err := readLines(path, enc)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: reading TOB file %s: %w", path, err)
	}

	marker := -1
	for i, line := range lines {
		if strings.HasPrefix(line, tobMarker) {
			marker = i
			break
		}
	}
	if marker == -1 || marker+tobDataOffset > len(lines) {
		return nil, fmt.Errorf("ctdtools: %w: column-name line %q not found in %s",
			ErrMalformedHeader, tobMarker, path)
	}

	columns := strings.Fields(lines[marker])[1:]
	unitsLine := strings.NewReplacer("[", "", "]", "").Replace(lines[marker+1])
	var units []string
	if fields := strings.Fields(unitsLine); len(fields) > 0 {
		units = append([]string{""}, fields[1:]...)
	}

	dateCol, timeCol := indexOf(columns, "IntD"), indexOf(columns, "IntT")
	if dateCol == -1 || timeCol == -1 {
		return nil, fmt.Errorf("ctdtools: %w: IntD/IntT columns not found in %s",
			ErrMalformedHeader, path)
	}

	var times []time.Time
	values := make(map[string][]float64, len(columns))
	for _, row := range lines[marker+tobDataOffset:] {
		fields := strings.Fields(row)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(columns) {
			return nil, fmt.Errorf("ctdtools: %w: TOB row has %d fields, want %d",
				ErrMalformedValue, len(fields), len(columns))
		}
		times = append(times, parseTOBTime(fields[dateCol]+" "+fields[timeCol]))
		for i, name := range columns {
			if i == dateCol || i == timeCol {
				continue
			}
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("ctdtools: %w: TOB column %s: %v",
					ErrMalformedValue, name, err)
			}
			values[name] = append(values[name], v)
		}
	}

	ds := NewDataset(times, nil, nanFloat, nanFloat)
	for i, name := range columns {
		if i == dateCol || i == timeCol {
			continue
		}
		key := name
		if canonical, ok := tobRenames[name]; ok {
			key = canonical
		}
		ds.AssignVariable(key, values[name])
		if i < len(units) && units[i] != "" {
			ds.AssignMetadata(key, "", units[i])
		}
	}

	if press, ok := ds.Var(PressureKey); ok {
		ds.AssignVariable(DepthKey, DepthFromPressure(press.Values, latitude))
		ds.AssignMetadata(DepthKey, "", "m")
	}
	fillDefaultMetadata(ds)

	return &TOBReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *TOBReader) Data() *Dataset { return r.data }

// parseTOBTime combines the IntD and IntT fields into one timestamp,
// returning the zero time for unparsable input.
func parseTOBTime(s string) time.Time {
	for _, layout := range tobTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// readLines reads a whole text file through the given character encoding.
func readLines(path string, enc encoding.Encoding) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(transform.NewReader(f, enc.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
