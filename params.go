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

import "strings"

// Canonical parameter keys. Every format reader normalizes its native
// column names to these keys before the dataset is published.
const (
	TimeKey                 = "time"
	JulianDayKey            = "timeJ" // Julian day-of-year
	SecondsSince2000Key     = "timeQ" // elapsed seconds since 2000-01-01
	SecondsSince1970Key     = "timeN" // elapsed seconds since 1970-01-01
	ElapsedSecondsKey       = "timeS" // elapsed seconds since recording start
	PressureKey             = "pressure"
	DepthKey                = "depth"
	TemperatureKey          = "temperature"
	SalinityKey             = "salinity"
	ConductivityKey         = "conductivity"
	SpeedOfSoundKey         = "speed_of_sound"
	OxygenKey               = "oxygen"
	TurbidityKey            = "turbidity"
	ChlorophyllKey          = "chlorophyll"
	BatteryVoltageKey       = "power_supply_input_voltage"
	LatitudeKey             = "latitude"
	LongitudeKey            = "longitude"
	DensityKey              = "density"
	PotentialTemperatureKey = "potential_temperature"
)

// defaultMappings lists, for each canonical key, the raw channel and column
// names the supported instruments are known to use. Order matters twice:
// keys are tried in declaration order when a reader fills its name mapping,
// and within a key only the first alias found in the input wins; later
// candidates stay unmapped.
var defaultMappings = []struct {
	key     string
	aliases []string
}{
	{TimeKey, []string{"time", "Time", "TIME"}},
	{JulianDayKey, []string{"timeJ", "timeJV2", "julian days"}},
	{SecondsSince2000Key, []string{"timeQ"}},
	{SecondsSince1970Key, []string{"timeN"}},
	{ElapsedSecondsKey, []string{"timeS", "elapsed seconds"}},
	{PressureKey, []string{"pressure", "prdM", "prDM", "pr", "Press", "PRES", "press"}},
	{DepthKey, []string{"depth", "depSM", "DEPTH", "Depth"}},
	{TemperatureKey, []string{"temperature", "t090C", "t190C", "tv290C", "Temp", "TEMP", "temp"}},
	{SalinityKey, []string{"salinity", "sal00", "sal11", "SALIN", "PSAL", "sal"}},
	{ConductivityKey, []string{"conductivity", "c0S/m", "c1S/m", "cond0mS/cm", "Cond", "COND"}},
	{SpeedOfSoundKey, []string{"speed_of_sound", "svCM", "SOUND", "sound velocity"}},
	{OxygenKey, []string{"oxygen", "sbeox0Mm/Kg", "sbox0Mm/Kg", "oxsatMm/Kg"}},
	{TurbidityKey, []string{"turbidity", "turbWETntu0", "obs"}},
	{ChlorophyllKey, []string{"chlorophyll", "flECO-AFL", "chloroflTC0"}},
	{BatteryVoltageKey, []string{"power_supply_input_voltage", "Vbatt", "battery voltage"}},
	{LatitudeKey, []string{"latitude", "Latitude", "lat"}},
	{LongitudeKey, []string{"longitude", "Longitude", "lon"}},
}

// defaultMetadata holds the attributes attached to a canonical parameter
// when the source file supplies none of its own.
var defaultMetadata = map[string]map[string]string{
	TimeKey:                 {"long_name": "Time"},
	JulianDayKey:            {"long_name": "Julian Days", "units": "days"},
	SecondsSince2000Key:     {"long_name": "Elapsed Seconds since 2000-01-01", "units": "s"},
	SecondsSince1970Key:     {"long_name": "Elapsed Seconds since 1970-01-01", "units": "s"},
	ElapsedSecondsKey:       {"long_name": "Elapsed Seconds since Recording Start", "units": "s"},
	PressureKey:             {"long_name": "Pressure", "units": "dbar"},
	DepthKey:                {"long_name": "Depth", "units": "m"},
	TemperatureKey:          {"long_name": "Temperature", "units": "degC"},
	SalinityKey:             {"long_name": "Salinity", "units": "PSU"},
	ConductivityKey:         {"long_name": "Conductivity", "units": "mS/cm"},
	SpeedOfSoundKey:         {"long_name": "Speed of Sound", "units": "m/s"},
	OxygenKey:               {"long_name": "Oxygen", "units": "umol/kg"},
	TurbidityKey:            {"long_name": "Turbidity", "units": "NTU"},
	ChlorophyllKey:          {"long_name": "Chlorophyll", "units": "ug/l"},
	BatteryVoltageKey:       {"long_name": "Power Supply Input Voltage", "units": "V"},
	LatitudeKey:             {"long_name": "Latitude", "units": "degrees_north"},
	LongitudeKey:            {"long_name": "Longitude", "units": "degrees_east"},
	DensityKey:              {"long_name": "Density", "units": "kg/m3"},
	PotentialTemperatureKey: {"long_name": "Potential Temperature", "units": "degC"},
}

// instrumentRenames maps the spelled-out column names used by RBR and
// Nortek instruments to canonical keys. Unlike the alias lists above this
// table is applied verbatim, one column at a time.
var instrumentRenames = map[string]string{
	"Temperature":     TemperatureKey,
	"Pressure":        PressureKey,
	"Sea pressure":    PressureKey,
	"Conductivity":    ConductivityKey,
	"Salinity":        SalinityKey,
	"Depth":           DepthKey,
	"Speed of sound":  SpeedOfSoundKey,
	"Battery voltage": BatteryVoltageKey,
	"Dissolved O2":    OxygenKey,
	"Turbidity":       TurbidityKey,
}

// ResolveAlias maps a raw channel or column name to its canonical key.
// Matching is case-insensitive. The second return value reports whether a
// mapping was found.
func ResolveAlias(raw string) (string, bool) {
	for _, entry := range defaultMappings {
		for _, alias := range entry.aliases {
			if strings.EqualFold(alias, raw) {
				return entry.key, true
			}
		}
	}
	return "", false
}

// DefaultMetadata returns a copy of the registry-default attributes for the
// given canonical key, or an empty map if the key is unknown.
func DefaultMetadata(key string) map[string]string {
	md, ok := defaultMetadata[key]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}

// isCanonicalKey reports whether name is one of the registry's canonical
// parameter keys.
func isCanonicalKey(name string) bool {
	for _, entry := range defaultMappings {
		if entry.key == name {
			return true
		}
	}
	return false
}
