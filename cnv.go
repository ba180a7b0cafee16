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
	"strconv"
	"strings"
	"time"
)

// CNVFile is the decoded content of a Sea-Bird CNV cast as produced by an
// external CNV parser: raw column arrays plus header metadata. It is the
// narrow interface between the proprietary binary decoding (out of scope
// here) and the normalization pipeline.
type CNVFile struct {
	// Channels lists the native channel names in file order.
	Channels []string
	// Data holds one raw column per channel.
	Data map[string][]float64
	// Names and Units hold the human-readable label and unit per channel.
	Names map[string]string
	Units map[string]string
	// Start is the recording start timestamp from the header.
	Start time.Time
	// Latitude and Longitude are from the header; NaN when absent.
	Latitude  float64
	Longitude float64
	// Header is the raw textual header, searched for the scan-interval
	// and bad-flag directives.
	Header string
}

// CNVDecoder decodes a CNV file at the given path. Implementations wrap
// whichever external CNV parser is in use.
type CNVDecoder interface {
	Decode(path string) (*CNVFile, error)
}

// CNVReader normalizes a Sea-Bird CNV cast into the canonical dataset.
type CNVReader struct {
	data *Dataset
}

// NewCNVReader decodes the CNV file at path using the given external
// decoder and normalizes it. The optional mapping overrides registry alias
// resolution per canonical key (canonical key -> native channel name);
// channels not covered by the mapping are resolved through the registry,
// first alias wins. Construction either returns a ready reader or an
// error; a partially built dataset is never exposed.
func NewCNVReader(path string, decoder CNVDecoder, mapping map[string]string) (*CNVReader, error) {
	cnv, err := decoder.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("ctdtools: decoding CNV file %s: %w", path, err)
	}

	resolved := make(map[string]string, len(mapping))
	for k, v := range mapping {
		resolved[k] = v
	}
	for _, entry := range defaultMappings {
		if _, ok := resolved[entry.key]; ok {
			continue
		}
		for _, alias := range entry.aliases {
			if containsString(cnv.Channels, alias) {
				resolved[entry.key] = alias
				break
			}
		}
	}

	present := make(map[string]bool, len(resolved))
	for key := range resolved {
		present[key] = true
	}
	// A time channel is not required here: the scan-interval fallback can
	// substitute for one, and its absence is reported by cnvTimeCoords.
	present[TimeKey] = true
	if err := validateRequired(present, "CNV channel mapping"); err != nil {
		return nil, err
	}

	columns := make(map[string][]float64, len(resolved))
	labels := make(map[string]string, len(resolved))
	units := make(map[string]string, len(resolved))
	samples := 0
	for key, channel := range resolved {
		col, ok := cnv.Data[channel]
		if !ok {
			return nil, fmt.Errorf("ctdtools: %w: mapped channel %q not in CNV data",
				ErrMissingParameter, channel)
		}
		columns[key] = col
		labels[key] = cnv.Names[channel]
		units[key] = cnv.Units[channel]
		samples = len(col)
	}

	times, err := cnvTimeCoords(columns, samples, cnv)
	if err != nil {
		return nil, err
	}

	var depth []float64
	if press, ok := columns[PressureKey]; ok {
		lat := cnv.Latitude
		if math.IsNaN(lat) {
			if latCol, ok := columns[LatitudeKey]; ok && len(latCol) > 0 {
				lat = latCol[0]
			}
		}
		depth = DepthFromPressure(press, lat)
	}

	ds := NewDataset(times, depth, cnv.Latitude, cnv.Longitude)
	for key, col := range columns {
		ds.AssignVariable(key, col)
		ds.AssignMetadata(key, labels[key], units[key])
	}
	attachDerived(ds)
	fillDefaultMetadata(ds)

	if flag, ok := cnvHeaderDirective(cnv.Header, "bad_flag"); ok {
		if sentinel, err := strconv.ParseFloat(flag, 64); err == nil {
			ds.ReplaceBadValues(sentinel)
		}
	}

	return &CNVReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *CNVReader) Data() *Dataset { return r.data }

// cnvTimeCoords builds the time coordinate from whichever time channel is
// mapped, in precedence order, falling back to the header scan-interval
// directive when no time channel exists.
func cnvTimeCoords(columns map[string][]float64, samples int, cnv *CNVFile) ([]time.Time, error) {
	for _, tc := range timeChannelPriority {
		if raw, ok := columns[tc.key]; ok {
			return DecodeTime(raw, tc.encoding, cnv.Start)
		}
	}
	interval, ok := cnvScanInterval(cnv.Header)
	if !ok {
		return nil, fmt.Errorf("ctdtools: %w in CNV file", ErrUndecodableTime)
	}
	return FixedIntervalTimes(samples, cnv.Start, interval), nil
}

// cnvScanInterval extracts the "# interval = seconds: n" directive from
// the raw header.
func cnvScanInterval(header string) (time.Duration, bool) {
	value, ok := cnvHeaderDirective(header, "interval")
	if !ok {
		return 0, false
	}
	value, ok = strings.CutPrefix(value, "seconds:")
	if !ok {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// cnvHeaderDirective scans the raw header for a "# name = value" line.
func cnvHeaderDirective(header, name string) (string, bool) {
	prefix := "# " + name + " = "
	for _, line := range strings.Split(header, "\n") {
		if value, ok := strings.CutPrefix(strings.TrimSpace(line), prefix); ok {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
