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

package ctdutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	content := `
Encoding = "latin1"
Latitude = 54.1

[Mapping]
temperature = "t190C"
salinity = "sal11"
`
	path := filepath.Join(t.TempDir(), "ctd.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Latitude != 54.1 {
		t.Errorf("Latitude = %g; want 54.1", cfg.Latitude)
	}
	if cfg.Mapping["temperature"] != "t190C" {
		t.Errorf("Mapping[temperature] = %q; want t190C", cfg.Mapping["temperature"])
	}

	enc, ok, err := cfg.TextEncoding()
	if err != nil || !ok || enc == nil {
		t.Errorf("TextEncoding() = %v, %v, %v; want latin1", enc, ok, err)
	}
}

func TestTextEncoding(t *testing.T) {
	if _, ok, err := (&Config{}).TextEncoding(); ok || err != nil {
		t.Errorf("empty encoding: ok=%v, err=%v; want unset", ok, err)
	}
	if _, _, err := (&Config{Encoding: "ebcdic"}).TextEncoding(); err == nil {
		t.Error("unknown encoding did not fail")
	}
}

func TestReadDatasetUnknownFormat(t *testing.T) {
	if _, err := readDataset("nonesuch", "file.dat", &Config{}); err == nil {
		t.Error("unknown format did not fail")
	}
	if _, err := readDataset("nortek", "file.dat", &Config{}); err == nil {
		t.Error("nortek without --header did not fail")
	}
}
