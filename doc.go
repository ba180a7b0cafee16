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

// Package ctdtools normalizes oceanographic sensor data (CTD casts,
// moored time series and current-profiler records) from the native file
// formats of several instrument families into one canonical, time-indexed
// dataset with standardized parameter names and CF-style metadata.
//
// Each supported format has its own reader (Sea-Bird CNV, Sea & Sun TOB,
// NetCDF, generic CSV, RBR ASCII, Nortek ASCII, RBR legacy RSK). A reader
// is constructed with a file path, decodes the native layout, resolves raw
// channel names to canonical keys through the parameter registry, builds
// the time coordinate, derives depth, density and potential temperature
// where the measured inputs allow, and exposes the finished dataset
// through the Data method. Construction either succeeds completely or
// returns an error; a partially built dataset is never handed out.
package ctdtools

// Version gives the version number of this release.
const Version = "1.0.0"
