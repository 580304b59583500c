package domain

import "math"

// CelsiusToFahrenheit converts a temperature in °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a temperature in °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// LitersToMilliliters converts a volume in liters to milliliters.
func LitersToMilliliters(l float64) float64 {
	return l * 1000
}

// MillilitersToLiters converts a volume in milliliters to liters.
func MillilitersToLiters(ml float64) float64 {
	return ml / 1000
}

// Round rounds v to the metric's conventional precision: whole bpm, 0.1 °C,
// whole mL.
func Round(m MetricType, v float64) float64 {
	if m == BodyTemperature {
		return math.Round(v*10) / 10
	}
	return math.Round(v)
}
