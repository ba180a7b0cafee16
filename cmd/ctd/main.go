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

// Command ctd is a command-line interface for normalizing oceanographic
// sensor data files.
package main

import (
	"fmt"
	"os"

	"github.com/ifmeo-hamburg/ctd-tools/ctdutil"
)

func main() {
	if err := ctdutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
