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
	"math"
	"testing"
	"time"
)

// stubDecoder returns a fixed CNVFile regardless of path.
type stubDecoder struct {
	file *CNVFile
	err  error
}

func (d *stubDecoder) Decode(path string) (*CNVFile, error) { return d.file, d.err }

func cnvFixture() *CNVFile {
	return &CNVFile{
		Channels: []string{"timeS", "prDM", "t090C", "sal00"},
		Data: map[string][]float64{
			"timeS": {0, 1, 2},
			"prDM":  {10, 20, 30},
			"t090C": {15.2, 15.1, 15.0},
			"sal00": {35.0, 35.05, 35.1},
		},
		Names: map[string]string{
			"prDM":  "Pressure, Digiquartz [db]",
			"t090C": "Temperature [ITS-90, deg C]",
		},
		Units: map[string]string{
			"prDM":  "db",
			"t090C": "ITS-90, deg C",
		},
		Start:     time.Date(2023, time.July, 14, 6, 0, 0, 0, time.UTC),
		Latitude:  math.NaN(),
		Longitude: math.NaN(),
		Header:    "# interval = seconds: 1\n# bad_flag = -9.990e-29\n",
	}
}

func TestCNVReader(t *testing.T) {
	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnvFixture()}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds := r.Data()

	if ds.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", ds.Len())
	}
	// timeS decodes against the recording start.
	if want := time.Date(2023, time.July, 14, 6, 0, 2, 0, time.UTC); !ds.Time[2].Equal(want) {
		t.Errorf("Time[2] = %v; want %v", ds.Time[2], want)
	}
	for i := 1; i < ds.Len(); i++ {
		if ds.Time[i].Before(ds.Time[i-1]) {
			t.Fatalf("time coordinate not non-decreasing at %d", i)
		}
	}

	temp, ok := ds.Var(TemperatureKey)
	if !ok {
		t.Fatal("temperature variable missing")
	}
	if temp.Attrs["long_name"] != "Temperature" {
		t.Errorf("temperature long_name = %q; want Temperature (unit substring stripped)",
			temp.Attrs["long_name"])
	}
	if temp.Attrs["units"] != "ITS-90, deg C" {
		t.Errorf("temperature units = %q; want the file unit", temp.Attrs["units"])
	}

	depth, ok := ds.Var(DepthKey)
	if !ok {
		t.Fatal("depth coordinate missing")
	}
	for i := 1; i < len(depth.Values); i++ {
		if depth.Values[i] >= depth.Values[i-1] {
			t.Fatal("depth not decreasing with increasing pressure")
		}
	}

	if !ds.Has(DensityKey) || !ds.Has(PotentialTemperatureKey) {
		t.Error("derived variables missing despite salinity, temperature and pressure")
	}
}

func TestCNVReaderMappingOverride(t *testing.T) {
	cnv := cnvFixture()
	cnv.Channels = append(cnv.Channels, "t190C")
	cnv.Data["t190C"] = []float64{14.9, 14.8, 14.7}

	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv},
		map[string]string{TemperatureKey: "t190C"})
	if err != nil {
		t.Fatal(err)
	}
	temp, _ := r.Data().Var(TemperatureKey)
	if temp.Values[0] != 14.9 {
		t.Errorf("temperature[0] = %v; want the secondary sensor column", temp.Values[0])
	}
}

func TestCNVReaderTimePrecedence(t *testing.T) {
	cnv := cnvFixture()
	// Julian day outranks elapsed seconds.
	cnv.Channels = append(cnv.Channels, "timeJ")
	cnv.Data["timeJ"] = []float64{194.25, 194.26, 194.27}

	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds := r.Data()
	if want := time.Date(2023, time.July, 14, 6, 0, 0, 0, time.UTC); !ds.Time[0].Equal(want) {
		t.Errorf("Time[0] = %v; want %v (decoded from the Julian-day channel)", ds.Time[0], want)
	}
}

func TestCNVReaderIntervalFallback(t *testing.T) {
	cnv := cnvFixture()
	cnv.Channels = []string{"prDM", "t090C", "sal00"}
	delete(cnv.Data, "timeS")

	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds := r.Data()
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", ds.Len())
	}
	if want := cnv.Start.Add(2 * time.Second); !ds.Time[2].Equal(want) {
		t.Errorf("Time[2] = %v; want %v (synthesized from the scan interval)", ds.Time[2], want)
	}
}

func TestCNVReaderUndecodableTime(t *testing.T) {
	cnv := cnvFixture()
	cnv.Channels = []string{"prDM", "t090C", "sal00"}
	delete(cnv.Data, "timeS")
	cnv.Header = "# bad_flag = -9.990e-29\n"

	_, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if !errors.Is(err, ErrUndecodableTime) {
		t.Errorf("err = %v; want ErrUndecodableTime", err)
	}
}

func TestCNVReaderMissingPressure(t *testing.T) {
	cnv := cnvFixture()
	cnv.Channels = []string{"timeS", "t090C", "sal00"}
	delete(cnv.Data, "prDM")

	_, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if !errors.Is(err, ErrMissingParameter) {
		t.Errorf("err = %v; want ErrMissingParameter", err)
	}
}

func TestCNVReaderBadFlag(t *testing.T) {
	cnv := cnvFixture()
	cnv.Data["t090C"] = []float64{15.2, -9.990e-29, 15.0}

	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if err != nil {
		t.Fatal(err)
	}
	temp, _ := r.Data().Var(TemperatureKey)
	if !math.IsNaN(temp.Values[1]) {
		t.Errorf("bad-flag value = %v; want NaN", temp.Values[1])
	}
	if temp.Values[0] != 15.2 || temp.Values[2] != 15.0 {
		t.Error("good values changed by bad-flag substitution")
	}
}

func TestCNVReaderDerivedGating(t *testing.T) {
	cnv := cnvFixture()
	cnv.Channels = []string{"timeS", "prDM", "t090C"}
	delete(cnv.Data, "sal00")

	r, err := NewCNVReader("cast.cnv", &stubDecoder{file: cnv}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds := r.Data()
	if ds.Has(DensityKey) || ds.Has(PotentialTemperatureKey) {
		t.Error("derived variables attached without salinity")
	}
}
