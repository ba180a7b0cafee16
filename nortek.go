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
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// nortekSectionMarker begins the column catalogue in a Nortek .hdr file.
// The section runs until the next blank line.
const nortekSectionMarker = "Data file format"

// nortekFieldSplit splits header lines on runs of two or more spaces, so
// multi-word column names survive as one field.
var nortekFieldSplit = regexp.MustCompile(`\s{2,}`)

// nortekColumn is one (column number, name, unit) descriptor from the
// header catalogue. Unit is "unknown" when the header gives none.
type nortekColumn struct {
	number string
	name   string
	unit   string
}

// nortekTimeComponents are the discrete date/time columns combined into
// the time coordinate.
var nortekTimeComponents = []string{"Year", "Month", "Day", "Hour", "Minute", "Second"}

// NortekASCIIReader normalizes a Nortek current-profiler ASCII export
// (a .dat data file plus its companion .hdr header file) into the
// canonical dataset.
type NortekASCIIReader struct {
	data *Dataset
}

// NewNortekASCIIReader reads and normalizes the Nortek .dat file at
// datPath, using the column catalogue from the companion header file at
// hdrPath. The optional mapping overrides registry alias resolution
// (canonical key -> source column name).
func NewNortekASCIIReader(datPath, hdrPath string, mapping map[string]string) (*NortekASCIIReader, error) {
	headers, err := readNortekHeader(hdrPath)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("ctdtools: %w: %q section not found in %s",
			ErrMalformedHeader, nortekSectionMarker, hdrPath)
	}

	columns := dedupColumns(headers)

	values, samples, err := readNortekData(datPath, columns)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, samples)
	if err := nortekTimes(values, times); err != nil {
		return nil, err
	}

	ds := NewDataset(times, nil, nanFloat, nanFloat)
	for i, name := range columns {
		if containsString(nortekTimeComponents, name) {
			continue
		}
		key := name
		if canonical, ok := instrumentRenames[name]; ok {
			key = canonical
		}
		ds.AssignVariable(key, values[name])
		if unit := headers[i].unit; unit != "unknown" {
			ds.AssignMetadata(key, "", unit)
		}
	}
	Postprocess(ds, mapping)

	return &NortekASCIIReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *NortekASCIIReader) Data() *Dataset { return r.data }

// readNortekHeader extracts the ordered column descriptors from the
// "Data file format" section of a .hdr file. The scan is a three-state
// pass over the lines: before the marker, inside the section, and done at
// the first blank line after it.
func readNortekHeader(path string) ([]nortekColumn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: opening Nortek header file %s: %w", path, err)
	}
	defer f.Close()

	var headers []nortekColumn
	inSection := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inSection {
			if line == nortekSectionMarker {
				inSection = true
			}
			continue
		}
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "[") {
			continue
		}
		headers = append(headers, parseNortekColumn(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ctdtools: reading Nortek header file %s: %w", path, err)
	}
	return headers, nil
}

// parseNortekColumn splits one catalogue line into its descriptor. The
// last field is taken as the unit only when parenthesized; otherwise the
// unit is unknown and every field after the column number belongs to the
// name.
func parseNortekColumn(line string) nortekColumn {
	parts := nortekFieldSplit.Split(line, -1)
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if strings.HasPrefix(last, "(") && strings.HasSuffix(last, ")") {
			return nortekColumn{
				number: parts[0],
				name:   strings.Join(parts[1:len(parts)-1], " "),
				unit:   strings.Trim(last, "()"),
			}
		}
		return nortekColumn{
			number: parts[0],
			name:   strings.Join(parts[1:], " "),
			unit:   "unknown",
		}
	}
	fields := strings.Fields(parts[0])
	return nortekColumn{
		number: fields[0],
		name:   strings.Join(fields[1:], " "),
		unit:   "unknown",
	}
}

// dedupColumns makes repeated header names unique by suffixing an
// occurrence counter, so "Checksum", "Checksum" become "Checksum",
// "Checksum_1".
func dedupColumns(headers []nortekColumn) []string {
	out := make([]string, len(headers))
	seen := map[string]int{}
	for i, h := range headers {
		name := h.name
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[h.name] = 0
		}
		out[i] = name
	}
	return out
}

// readNortekData reads the whitespace-delimited .dat rows into one column
// per header descriptor.
func readNortekData(path string, columns []string) (map[string][]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("ctdtools: opening Nortek data file %s: %w", path, err)
	}
	defer f.Close()

	values := make(map[string][]float64, len(columns))
	samples := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(columns) {
			return nil, 0, fmt.Errorf("ctdtools: %w: Nortek row has %d fields, want %d",
				ErrMalformedValue, len(fields), len(columns))
		}
		for i, name := range columns {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, 0, fmt.Errorf("ctdtools: %w: Nortek column %s: %v",
					ErrMalformedValue, name, err)
			}
			values[name] = append(values[name], v)
		}
		samples++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("ctdtools: reading Nortek data file %s: %w", path, err)
	}
	return values, samples, nil
}

// nortekTimes combines the six date/time component columns into absolute
// timestamps. A row with an unrepresentable component is coerced to the
// zero time.
func nortekTimes(values map[string][]float64, times []time.Time) error {
	for _, name := range nortekTimeComponents {
		if _, ok := values[name]; !ok {
			return fmt.Errorf("ctdtools: %w: no %s column in Nortek data",
				ErrMissingParameter, name)
		}
	}
	for i := range times {
		year := int(values["Year"][i])
		month := int(values["Month"][i])
		day := int(values["Day"][i])
		hour := int(values["Hour"][i])
		minute := int(values["Minute"][i])
		sec := values["Second"][i]
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue // zero time marks the unparsable row
		}
		wholeSec, frac := math.Modf(sec)
		times[i] = time.Date(year, time.Month(month), day, hour, minute,
			int(wholeSec), int(frac*float64(time.Second)), time.UTC)
	}
	return nil
}
