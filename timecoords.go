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
	"time"
)

// TimeEncoding identifies how a raw numeric time channel is to be decoded
// into absolute timestamps.
type TimeEncoding int

const (
	// EncodingJulianDay is a fractional day-of-year counted from January 1
	// of the reference year.
	EncodingJulianDay TimeEncoding = iota
	// EncodingSecondsSince2000 is elapsed seconds since 2000-01-01 00:00:00.
	EncodingSecondsSince2000
	// EncodingSecondsSince1970 is elapsed seconds since 1970-01-01 00:00:00.
	EncodingSecondsSince1970
	// EncodingSecondsSinceOffset is elapsed seconds since a per-file
	// recording-start timestamp parsed from the header.
	EncodingSecondsSinceOffset
)

var (
	epoch1970 = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	epoch2000 = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// timeChannelPriority is the tie-break order applied when a format could
// supply several time channels: only the first available one is used.
var timeChannelPriority = []struct {
	key      string
	encoding TimeEncoding
}{
	{JulianDayKey, EncodingJulianDay},
	{SecondsSince2000Key, EncodingSecondsSince2000},
	{SecondsSince1970Key, EncodingSecondsSince1970},
	{ElapsedSecondsKey, EncodingSecondsSinceOffset},
}

// DecodeTime converts a raw numeric time channel into absolute timestamps.
// The offset argument supplies the reference for EncodingJulianDay (any
// time in the file's reporting year) and EncodingSecondsSinceOffset (the
// recording start); it is ignored for the fixed-epoch encodings. The
// returned slice has the same length as values.
func DecodeTime(values []float64, encoding TimeEncoding, offset time.Time) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	switch encoding {
	case EncodingJulianDay:
		yearStart := time.Date(offset.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		for i, v := range values {
			out[i] = julianToGregorian(v, yearStart)
		}
	case EncodingSecondsSince2000:
		for i, v := range values {
			out[i] = addSeconds(epoch2000, v)
		}
	case EncodingSecondsSince1970:
		for i, v := range values {
			out[i] = addSeconds(epoch1970, v)
		}
	case EncodingSecondsSinceOffset:
		for i, v := range values {
			out[i] = addSeconds(offset, v)
		}
	default:
		return nil, fmt.Errorf("ctdtools: unknown time encoding %d", encoding)
	}
	return out, nil
}

// FixedIntervalTimes synthesizes a time axis of n samples spaced at the
// given scan interval, starting at offset. It is the fallback used when a
// file carries no explicit time channel.
func FixedIntervalTimes(n int, offset time.Time, interval time.Duration) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = offset.Add(time.Duration(i) * interval)
	}
	return out
}

// julianToGregorian converts a fractional Julian day count to an absolute
// timestamp by splitting it into whole days plus sub-day seconds added to
// the reference year start.
func julianToGregorian(julianDays float64, yearStart time.Time) time.Time {
	fullDays := int(julianDays)
	seconds := (julianDays - float64(fullDays)) * 24 * 60 * 60
	return addSeconds(yearStart.AddDate(0, 0, fullDays), seconds)
}

func addSeconds(t time.Time, seconds float64) time.Time {
	return t.Add(time.Duration(seconds * float64(time.Second)))
}
