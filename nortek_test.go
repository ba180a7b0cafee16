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
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const nortekHdrFixture = `[/some/path/deployment.dat]
---------------------------------------------------------------------
Number of measurements                1234
Measurement/Burst interval            600 sec

Data file format
---------------------------------------------------------------------
 1   Month                            (1-12)
 2   Day                              (1-31)
 3   Year
 4   Hour                             (0-23)
 5   Minute                           (0-59)
 6   Second                           (0-59)
 7   Pressure                         (dbar)
 8   Temperature                      (degrees C)
 9   Checksum                         (1=failed)
10   Checksum                         (1=failed)

Wave data file format
---------------------------------------------------------------------
 1   Something else
`

const nortekDatFixture = ` 6 1 2023 10 0 0.00 10.50 15.20 0 0
 6 1 2023 10 0 0.50 20.50 15.10 0 0
 6 1 2023 10 0 1.00 30.50 15.00 0 0
`

func writeNortekFixture(t *testing.T, hdr, dat string) (datPath, hdrPath string) {
	t.Helper()
	dir := t.TempDir()
	datPath = filepath.Join(dir, "deployment.dat")
	hdrPath = filepath.Join(dir, "deployment.hdr")
	if err := os.WriteFile(datPath, []byte(dat), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hdrPath, []byte(hdr), 0644); err != nil {
		t.Fatal(err)
	}
	return datPath, hdrPath
}

func TestParseNortekColumn(t *testing.T) {
	tests := []struct {
		line string
		want nortekColumn
	}{
		{"7   Pressure                         (dbar)",
			nortekColumn{"7", "Pressure", "dbar"}},
		{"8   Speed of sound                   (m/s)",
			nortekColumn{"8", "Speed of sound", "m/s"}},
		{"3   Year",
			nortekColumn{"3", "Year", "unknown"}},
		{"9   Analog input 1",
			nortekColumn{"9", "Analog input 1", "unknown"}},
	}
	for _, test := range tests {
		if got := parseNortekColumn(test.line); got != test.want {
			t.Errorf("parseNortekColumn(%q) = %+v; want %+v", test.line, got, test.want)
		}
	}
}

func TestDedupColumns(t *testing.T) {
	headers := []nortekColumn{
		{"1", "Checksum", "unknown"},
		{"2", "Pressure", "dbar"},
		{"3", "Checksum", "unknown"},
		{"4", "Checksum", "unknown"},
	}
	want := []string{"Checksum", "Pressure", "Checksum_1", "Checksum_2"}
	if got := dedupColumns(headers); !reflect.DeepEqual(got, want) {
		t.Errorf("dedupColumns = %v; want %v", got, want)
	}
}

func TestNortekASCIIReader(t *testing.T) {
	datPath, hdrPath := writeNortekFixture(t, nortekHdrFixture, nortekDatFixture)
	r, err := NewNortekASCIIReader(datPath, hdrPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds := r.Data()

	if ds.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", ds.Len())
	}
	if want := time.Date(2023, time.June, 1, 10, 0, 0, 500000000, time.UTC); !ds.Time[1].Equal(want) {
		t.Errorf("Time[1] = %v; want %v", ds.Time[1], want)
	}

	// The date/time component columns are consumed by the time coordinate.
	for _, name := range nortekTimeComponents {
		if ds.Has(name) {
			t.Errorf("component column %s kept as a variable", name)
		}
	}

	press, ok := ds.Var(PressureKey)
	if !ok {
		t.Fatalf("pressure missing; have %v", ds.VarNames())
	}
	if press.Attrs["units"] != "dbar" {
		t.Errorf("pressure units = %q; want dbar (from the header catalogue)",
			press.Attrs["units"])
	}
	temp, _ := ds.Var(TemperatureKey)
	if temp.Attrs["units"] != "degrees C" {
		t.Errorf("temperature units = %q; want \"degrees C\"", temp.Attrs["units"])
	}

	if !ds.Has("Checksum") || !ds.Has("Checksum_1") {
		t.Errorf("de-duplicated checksum columns missing; have %v", ds.VarNames())
	}
}

func TestNortekASCIIReaderMissingSection(t *testing.T) {
	datPath, hdrPath := writeNortekFixture(t, "[header]\nno catalogue here\n", nortekDatFixture)
	_, err := NewNortekASCIIReader(datPath, hdrPath, nil)
	if !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("err = %v; want ErrMalformedHeader", err)
	}
}

func TestNortekASCIIReaderRowWidth(t *testing.T) {
	datPath, hdrPath := writeNortekFixture(t, nortekHdrFixture, "1 2 3\n")
	_, err := NewNortekASCIIReader(datPath, hdrPath, nil)
	if !errors.Is(err, ErrMalformedValue) {
		t.Errorf("err = %v; want ErrMalformedValue", err)
	}
}
