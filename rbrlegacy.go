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
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // RSK files are embedded SQLite databases.
)

// rskChannel is one row of the .rsk channel catalogue.
type rskChannel struct {
	id       int
	short    string
	longName string
	units    string
}

// RBRLegacyReader normalizes an RBR legacy .rsk file into the canonical
// dataset. The file is an embedded relational store with a channel
// catalogue and a bulk measurement table keyed by millisecond epoch
// timestamps.
type RBRLegacyReader struct {
	data *Dataset
}

// NewRBRLegacyReader reads and normalizes the .rsk file at path. The
// optional mapping overrides registry alias resolution (canonical key ->
// channel long name). The database handle is closed as soon as the rows
// are fetched.
func NewRBRLegacyReader(path string, mapping map[string]string) (*RBRLegacyReader, error) {
	channels, times, columns, err := readRSK(path)
	if err != nil {
		return nil, err
	}

	ds := NewDataset(times, nil, nanFloat, nanFloat)
	for i, ch := range channels {
		ds.AssignVariable(ch.longName, columns[i])
		ds.AssignMetadata(ch.longName, ch.longName, ch.units)
	}
	Postprocess(ds, mapping)

	return &RBRLegacyReader{data: ds}, nil
}

// Data returns the normalized dataset.
func (r *RBRLegacyReader) Data() *Dataset { return r.data }

// readRSK fetches the channel catalogue and measurement rows from the
// embedded store.
func readRSK(path string) ([]rskChannel, []time.Time, [][]float64, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ctdtools: opening RSK file %s: %w", path, err)
	}
	defer db.Close()

	channels, err := readRSKChannels(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ctdtools: reading RSK channel catalogue in %s: %w", path, err)
	}
	if len(channels) == 0 {
		return nil, nil, nil, fmt.Errorf("ctdtools: %w: no channels in RSK file %s",
			ErrMalformedHeader, path)
	}

	cols := make([]string, 0, len(channels)+1)
	cols = append(cols, "tstamp")
	for _, ch := range channels {
		cols = append(cols, fmt.Sprintf("channel%02d", ch.id))
	}
	rows, err := db.Query("SELECT " + strings.Join(cols, ", ") + " FROM data")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ctdtools: reading RSK data table in %s: %w", path, err)
	}
	defer rows.Close()

	var times []time.Time
	columns := make([][]float64, len(channels))
	values := make([]float64, len(channels))
	dest := make([]interface{}, 0, len(channels)+1)
	var tstamp int64
	dest = append(dest, &tstamp)
	for i := range values {
		dest = append(dest, &values[i])
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, nil, fmt.Errorf("ctdtools: scanning RSK data row in %s: %w", path, err)
		}
		times = append(times, time.UnixMilli(tstamp).UTC())
		for i, v := range values {
			columns[i] = append(columns[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("ctdtools: reading RSK data table in %s: %w", path, err)
	}
	return channels, times, columns, nil
}

// readRSKChannels loads the channel catalogue ordered by channel ID.
func readRSKChannels(db *sql.DB) ([]rskChannel, error) {
	rows, err := db.Query("SELECT channelID, shortName, longName, units FROM channels ORDER BY channelID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []rskChannel
	for rows.Next() {
		var ch rskChannel
		if err := rows.Scan(&ch.id, &ch.short, &ch.longName, &ch.units); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}
