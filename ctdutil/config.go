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
	"fmt"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Config holds the optional per-file settings supplied through a TOML
// configuration file: the canonical-key to source-column mapping override,
// the text encoding of text-based inputs, and the deployment-site latitude
// used for the pressure-to-depth conversion.
type Config struct {
	// Mapping overrides registry alias resolution. Keys are canonical
	// parameter names, values are source-file column or channel names.
	Mapping map[string]string

	// Encoding names the character encoding of text inputs ("latin1" or
	// "utf8"). Empty selects each reader's own default.
	Encoding string

	// Latitude is the deployment-site latitude in decimal degrees; zero
	// selects the reader's default.
	Latitude float64
}

// LoadConfig reads a Config from the TOML file at filename.
func LoadConfig(filename string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, fmt.Errorf("ctd: reading configuration file %s: %w", filename, err)
	}
	return cfg, nil
}

// TextEncoding resolves the configured encoding name. The second return
// value is false when no encoding is configured.
func (c *Config) TextEncoding() (encoding.Encoding, bool, error) {
	switch c.Encoding {
	case "":
		return nil, false, nil
	case "latin1", "iso8859-1":
		return charmap.ISO8859_1, true, nil
	case "utf8", "utf-8":
		return unicode.UTF8, true, nil
	}
	return nil, false, fmt.Errorf("ctd: unknown text encoding %q", c.Encoding)
}
