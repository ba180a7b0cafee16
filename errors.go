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

import "errors"

// Errors reported by reader construction. All of them are fatal: a reader
// whose constructor returns one of these never exposes a dataset, and
// nothing is retried internally.
var (
	// ErrMissingParameter indicates that neither a time channel nor
	// pressure/depth could be resolved after alias mapping.
	ErrMissingParameter = errors.New("required parameter missing")

	// ErrMalformedHeader indicates that a format-specific structural
	// marker could not be located in the file preamble.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedValue indicates an unparsable field in a format that
	// does not tolerate dirty input.
	ErrMalformedValue = errors.New("malformed value")

	// ErrUndecodableTime indicates that no recognized time encoding is
	// present and no scan-interval header directive exists, so no time
	// axis can be constructed.
	ErrUndecodableTime = errors.New("no decodable time encoding")
)
