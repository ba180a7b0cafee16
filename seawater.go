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

import "math"

// Seawater equation-of-state formulas from Fofonoff, N.P. and Millard,
// R.C. Jr., Algorithms for computation of fundamental properties of
// seawater, UNESCO Technical Papers in Marine Science 44 (1983).
// Salinity is practical salinity (PSS-78), temperature [degC, IPTS-68],
// pressure [dbar].

// DefaultReferenceLatitude is the latitude used for the pressure-to-depth
// conversion when the source file provides none. It is the Cuxhaven
// deployment site of the Sea & Sun instruments.
const DefaultReferenceLatitude = 53.8187

// DepthFromPressure converts sea pressure [dbar] to height [m, negative
// downward] using the UNESCO formula, with gravity corrected for the given
// latitude [degrees north]. Pass NaN to use DefaultReferenceLatitude.
func DepthFromPressure(pressure []float64, latitude float64) []float64 {
	if math.IsNaN(latitude) {
		latitude = DefaultReferenceLatitude
	}
	sinLat := math.Sin(latitude * math.Pi / 180)
	x := sinLat * sinLat
	out := make([]float64, len(pressure))
	for i, p := range pressure {
		// Gravity variation with latitude and pressure.
		gr := 9.780318*(1.0+(5.2788e-3+2.36e-5*x)*x) + 1.092e-6*p
		d := ((((-1.82e-15*p+2.279e-10)*p-2.2512e-5)*p + 9.72659) * p) / gr
		out[i] = -d
	}
	return out
}

// Density computes in-situ density [kg/m3] from salinity, temperature
// [degC] and pressure [dbar] using the 1980 international equation of
// state (EOS-80). The inputs must be the same length.
func Density(salinity, temperature, pressure []float64) []float64 {
	out := make([]float64, len(salinity))
	for i := range out {
		out[i] = densityAt(salinity[i], temperature[i], pressure[i])
	}
	return out
}

// densityAt evaluates EOS-80 at a single sample.
// Check value: densityAt(35, 25, 10000) = 1062.53817 kg/m3.
func densityAt(s, t, p float64) float64 {
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	t5 := t4 * t

	// Density of the Standard Mean Ocean Water reference (Bigg, 1967).
	rw := 999.842594 + 6.793952e-2*t - 9.095290e-3*t2 +
		1.001685e-4*t3 - 1.120083e-6*t4 + 6.536332e-9*t5

	// Density at one standard atmosphere.
	a := 8.24493e-1 - 4.0899e-3*t + 7.6438e-5*t2 - 8.2467e-7*t3 + 5.3875e-9*t4
	b := -5.72466e-3 + 1.0227e-4*t - 1.6546e-6*t2
	const c = 4.8314e-4
	rho0 := rw + a*s + b*s*math.Sqrt(s) + c*s*s

	if p == 0 {
		return rho0
	}
	pb := p / 10 // dbar to bar
	k := secantBulkModulus(s, t, pb)
	return rho0 / (1 - pb/k)
}

// secantBulkModulus is the high-pressure part of EOS-80, with pressure in
// bar. Check value: secantBulkModulus(35, 25, 1000) = 23786.056 bar.
func secantBulkModulus(s, t, pb float64) float64 {
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t
	s15 := s * math.Sqrt(s)

	kw := 19652.21 + 148.4206*t - 2.327105*t2 + 1.360477e-2*t3 - 5.155288e-5*t4
	k0 := kw + s*(54.6746-0.603459*t+1.09987e-2*t2-6.1670e-5*t3) +
		s15*(7.944e-2+1.6483e-2*t-5.3009e-4*t2)

	aw := 3.239908 + 1.43713e-3*t + 1.16092e-4*t2 - 5.77905e-7*t3
	a := aw + s*(2.2838e-3-1.0981e-5*t-1.6078e-6*t2) + 1.91075e-4*s15

	bw := 8.50935e-5 - 6.12293e-6*t + 5.2787e-8*t2
	b := bw + s*(-9.9348e-7+2.0816e-8*t+9.1697e-10*t2)

	return k0 + a*pb + b*pb*pb
}

// PotentialTemperature computes potential temperature [degC] referenced to
// the surface (0 dbar) from salinity, temperature [degC] and pressure
// [dbar], integrating the adiabatic lapse rate with a fourth-order
// Runge-Kutta scheme (Fofonoff, 1977).
func PotentialTemperature(salinity, temperature, pressure []float64) []float64 {
	out := make([]float64, len(salinity))
	for i := range out {
		out[i] = potentialTemperatureAt(salinity[i], temperature[i], pressure[i])
	}
	return out
}

// potentialTemperatureAt evaluates a single sample.
// Check value: potentialTemperatureAt(40, 40, 10000) = 36.89073 degC.
func potentialTemperatureAt(s, t, p float64) float64 {
	h := -p // integrate from p to the surface
	xk := h * adiabaticGradient(s, t, p)
	t += 0.5 * xk
	q := xk
	p += 0.5 * h
	xk = h * adiabaticGradient(s, t, p)
	t += 0.29289322 * (xk - q)
	q = 0.58578644*xk + 0.121320344*q
	xk = h * adiabaticGradient(s, t, p)
	t += 1.707106781 * (xk - q)
	q = 3.414213562*xk - 4.121320344*q
	p += 0.5 * h
	xk = h * adiabaticGradient(s, t, p)
	return t + (xk-2.0*q)/6.0
}

// adiabaticGradient is the adiabatic temperature gradient [degC/dbar]
// (Bryden, 1973). Check value: adiabaticGradient(40, 40, 10000) =
// 3.255976e-4 degC/dbar.
func adiabaticGradient(s, t, p float64) float64 {
	ds := s - 35.0
	return (((-2.1687e-16*t+1.8676e-14)*t-4.6206e-13)*p*p +
		((2.7759e-12*t-1.1351e-10)*ds+
			((-5.4481e-14*t+8.733e-12)*t-6.7795e-10)*t+1.8741e-8)*p +
		(-4.2393e-8*t+1.8932e-6)*ds +
		((6.6228e-10*t-6.836e-8)*t+8.5258e-6)*t + 3.5803e-5)
}

// attachDerived adds the density and potential_temperature variables to ds
// when salinity, temperature and pressure are all present. Their absence is
// not an error; the dataset is simply left without the derived variables.
func attachDerived(ds *Dataset) {
	sal, okS := ds.Var(SalinityKey)
	temp, okT := ds.Var(TemperatureKey)
	press, okP := ds.Var(PressureKey)
	if !okS || !okT || !okP {
		return
	}
	ds.AssignVariable(DensityKey, Density(sal.Values, temp.Values, press.Values))
	ds.AssignMetadata(DensityKey, "", "")
	ds.AssignVariable(PotentialTemperatureKey,
		PotentialTemperature(sal.Values, temp.Values, press.Values))
	ds.AssignMetadata(PotentialTemperatureKey, "", "")
}
