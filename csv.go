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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cast"
)

// csvTimeLayout is the fixed literal timestamp format of the generic CSV
// input (fractional seconds optional).
const csvTimeLayout = "2006-01-02 15:04:05.999999"

// CSVReader normalizes a generic CSV export (UTF-8, header row, one row
// per sample) into the canonical dataset. The CSV path assumes clean
// input: any unparsable timestamp or registry-known numeric field aborts
// the read.
type CSVReader struct {
	data *Dataset
}

// NewCSVReader reads and normalizes the CSV file at path.
func NewCSVReader(path string) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: opening CSV file %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ctdtools: %w: parsing CSV file %s: %v", ErrMalformedValue, path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("ctdtools: %w: CSV file %s has no data rows", ErrMalformedHeader, path)
	}

	// Column-oriented parse preserving row order.
	header := records[0]
	columns := make(map[string][]string, len(header))
	for _, row := range records[1:] {
		for i, name := range header {
			if i < len(row) {
				columns[name] = append(columns[name], row[i])
			}
		}
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	if err := validateRequired(present, "CSV file"); err != nil {
		return nil, err
	}

	times := make([]time.Time, len(columns[TimeKey]))
	for i, raw := range columns[TimeKey] {
		t, err := time.Parse(csvTimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("ctdtools: %w: CSV timestamp %q: %v", ErrMalformedValue, raw, err)
		}
		times[i] = t
	}

	numeric := make(map[string][]float64, len(header))
	for _, name := range header {
		if name == TimeKey {
			continue
		}
		values, err := coerceColumn(columns[name])
		if err != nil {
			if isCanonicalKey(name) {
				return nil, fmt.Errorf("ctdtools: %w: CSV column %s: %v", ErrMalformedValue, name, err)
			}
			continue // non-registry text column; not representable
		}
		numeric[name] = values
	}

	depth := numeric[DepthKey]
	latitude, longitude := math.NaN(), math.NaN()
	if lat := numeric[LatitudeKey]; len(lat) > 0 {
		latitude = lat[0]
	}
	if lon := numeric[LongitudeKey]; len(lon) > 0 {
		longitude = lon[0]
	}
	if depth == nil {
		if press, ok := numeric[PressureKey]; ok {
			depth = DepthFromPressure(press, latitude)
		}
	}

	ds := NewDataset(times, depth, latitude, longitude)
	for _, name := range header {
		if name == TimeKey || name == DepthKey {
			continue
		}
		if values, ok := numeric[name]; ok {
			ds.AssignVariable(name, values)
		}
	}
	attachDerived(ds)
	fillDefaultMetadata(ds)

	return &CSVReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *CSVReader) Data() *Dataset { return r.data }

// coerceColumn converts a string column to float64, failing on the first
// unparsable field.
func coerceColumn(raw []string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
