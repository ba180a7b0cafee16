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

// Package ctdutil holds the command-line interface of the ctd command.
package ctdutil

import (
	"fmt"
	"strings"

	"github.com/ifmeo-hamburg/ctd-tools"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()

	// Options are the configuration options available to the ctd command.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the location of a TOML configuration file
              supplying the parameter-name mapping override, the text
              encoding of text-based inputs, and the deployment latitude.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "format",
			usage: `
              format names the input file format. Supported values are
              tob, netcdf, csv, rbr, nortek and rsk. The format is never
              guessed from the file contents.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
		{
			name: "header",
			usage: `
              header specifies the companion .hdr file of a Nortek ASCII
              data file. It is required for the nortek format and ignored
              otherwise.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
		{
			name: "latitude",
			usage: `
              latitude is the deployment-site latitude in decimal degrees,
              used for the pressure-to-depth conversion. Zero selects the
              format default. A value from the configuration file takes
              precedence.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			if set.Lookup(option.name) != nil {
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(infoCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ctd",
	Short: "Normalize oceanographic sensor data files.",
	Long: `ctd reads CTD, mooring and current-profiler data files in their native
instrument formats and normalizes them into one canonical, time-indexed
dataset with standardized parameter names and metadata.

The input format is chosen with the --format flag, never guessed from the
file contents. Configuration can be supplied through command-line flags or
a TOML configuration file (via the --config flag).`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ctd-tools.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ctd-tools v%s\n", ctdtools.Version)
	},
	DisableAutoGenTag: true,
}

// infoCmd reads one data file and prints a summary of the normalized
// dataset.
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Summarize a normalized data file",
	Long: `info reads the given data file in the format named by --format,
normalizes it, and prints the time range, coordinates and variables of the
resulting dataset.`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := new(Config)
		if cfgpath := Cfg.GetString("config"); cfgpath != "" {
			var err error
			if cfg, err = LoadConfig(cfgpath); err != nil {
				return err
			}
		}
		if cfg.Latitude == 0 {
			cfg.Latitude = Cfg.GetFloat64("latitude")
		}
		format := Cfg.GetString("format")
		if format == "" {
			return fmt.Errorf("ctd: the --format flag is required")
		}

		ds, err := readDataset(format, args[0], cfg)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"file":      args[0],
			"format":    format,
			"samples":   ds.Len(),
			"variables": len(ds.VarNames()),
		}).Info("dataset loaded")

		printSummary(cmd, ds)
		return nil
	},
}

// readDataset dispatches to the format reader named by format.
func readDataset(format, path string, cfg *Config) (*ctdtools.Dataset, error) {
	var r ctdtools.Reader
	var err error
	switch format {
	case "tob":
		opts := &ctdtools.TOBOptions{Latitude: cfg.Latitude}
		if opts.Encoding, _, err = cfg.TextEncoding(); err != nil {
			return nil, err
		}
		r, err = ctdtools.NewTOBReader(path, opts)
	case "netcdf":
		r, err = ctdtools.NewNetCDFReader(path)
	case "csv":
		r, err = ctdtools.NewCSVReader(path)
	case "rbr":
		r, err = ctdtools.NewRBRASCIIReader(path, cfg.Mapping)
	case "nortek":
		hdr := Cfg.GetString("header")
		if hdr == "" {
			return nil, fmt.Errorf("ctd: the nortek format requires the --header flag")
		}
		r, err = ctdtools.NewNortekASCIIReader(path, hdr, cfg.Mapping)
	case "rsk":
		r, err = ctdtools.NewRBRLegacyReader(path, cfg.Mapping)
	case "cnv":
		// CNV decoding goes through an external decoder linked in by
		// library users; the command line has none.
		return nil, fmt.Errorf("ctd: the cnv format is only available through the library interface")
	default:
		return nil, fmt.Errorf("ctd: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return r.Data(), nil
}

// printSummary writes a human-readable dataset summary to the command's
// output stream.
func printSummary(cmd *cobra.Command, ds *ctdtools.Dataset) {
	if n := ds.Len(); n > 0 {
		cmd.Printf("time: %s - %s (%d samples)\n",
			ds.Time[0].Format("2006-01-02 15:04:05"),
			ds.Time[n-1].Format("2006-01-02 15:04:05"), n)
	}
	if lat, ok := ds.Attrs["latitude"]; ok {
		cmd.Printf("latitude: %s\n", lat)
	}
	if lon, ok := ds.Attrs["longitude"]; ok {
		cmd.Printf("longitude: %s\n", lon)
	}
	cmd.Printf("variables:\n")
	for _, name := range ds.VarNames() {
		v, _ := ds.Var(name)
		var parts []string
		if long := v.Attrs["long_name"]; long != "" {
			parts = append(parts, long)
		}
		if units := v.Attrs["units"]; units != "" {
			parts = append(parts, "["+units+"]")
		}
		cmd.Printf("  %-28s %s\n", name, strings.Join(parts, " "))
	}
}
