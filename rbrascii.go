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
)

// rbrTimeLayout is the combined Date + Time format of RBR .dat exports.
const rbrTimeLayout = "2006/01/02 15:04:05"

// RBRASCIIReader normalizes an RBR ASCII .dat export into the canonical
// dataset. The file has a free-form metadata preamble ended by the first
// blank line; the line after the blank names the data columns, and every
// following row starts with separate date and time fields.
type RBRASCIIReader struct {
	data *Dataset
}

// NewRBRASCIIReader reads and normalizes the RBR .dat file at path. The
// optional mapping overrides registry alias resolution (canonical key ->
// source column name).
func NewRBRASCIIReader(path string, mapping map[string]string) (*RBRASCIIReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: opening RBR file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ctdtools: reading RBR file %s: %w", path, err)
	}

	headerLine := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			headerLine = i + 1
			break
		}
	}
	if headerLine == -1 || headerLine >= len(lines) {
		return nil, fmt.Errorf("ctdtools: %w: no blank-line-delimited header in %s",
			ErrMalformedHeader, path)
	}

	columns := strings.Fields(lines[headerLine])
	if len(columns) == 0 {
		return nil, fmt.Errorf("ctdtools: %w: empty column-header line in %s",
			ErrMalformedHeader, path)
	}

	// Rows carry two extra leading fields (date, time) not named in the
	// column header.
	var times []time.Time
	values := make(map[string][]float64, len(columns))
	for _, row := range lines[headerLine+1:] {
		fields := strings.Fields(row)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(columns)+2 {
			return nil, fmt.Errorf("ctdtools: %w: RBR row has %d fields, want %d",
				ErrMalformedValue, len(fields), len(columns)+2)
		}
		t, err := time.Parse(rbrTimeLayout, fields[0]+" "+fields[1])
		if err != nil {
			return nil, fmt.Errorf("ctdtools: %w: RBR timestamp %q: %v",
				ErrMalformedValue, fields[0]+" "+fields[1], err)
		}
		times = append(times, t)
		for i, name := range columns {
			v, err := strconv.ParseFloat(fields[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("ctdtools: %w: RBR column %s: %v",
					ErrMalformedValue, name, err)
			}
			values[name] = append(values[name], v)
		}
	}

	ds := NewDataset(times, nil, nanFloat, nanFloat)
	for _, name := range columns {
		key := name
		if canonical, ok := instrumentRenames[name]; ok {
			key = canonical
		}
		ds.AssignVariable(key, values[name])
	}
	Postprocess(ds, mapping)

	return &RBRASCIIReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *RBRASCIIReader) Data() *Dataset { return r.data }
