package domain_test

import (
	"math"
	"testing"

	"healthsync/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestTemperatureConversion(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		want    float64
	}{
		{"freezing", 0, 32},
		{"body temp", 37, 98.6},
		{"fever", 39.5, 103.1},
		{"negative", -40, -40},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.CelsiusToFahrenheit(tc.celsius)
			if !almostEqual(got, tc.want, 0.001) {
				t.Errorf("CelsiusToFahrenheit(%v) = %v; want %v", tc.celsius, got, tc.want)
			}
			back := domain.FahrenheitToCelsius(got)
			if !almostEqual(back, tc.celsius, 0.001) {
				t.Errorf("FahrenheitToCelsius(%v) = %v; want %v", got, back, tc.celsius)
			}
		})
	}
}

func TestVolumeConversion(t *testing.T) {
	if got := domain.LitersToMilliliters(1.5); !almostEqual(got, 1500, 0.001) {
		t.Errorf("LitersToMilliliters(1.5) = %v; want 1500", got)
	}
	if got := domain.MillilitersToLiters(250); !almostEqual(got, 0.25, 0.001) {
		t.Errorf("MillilitersToLiters(250) = %v; want 0.25", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		metric domain.MetricType
		value  float64
		want   float64
	}{
		{"heart rate whole bpm", domain.HeartRate, 71.6, 72},
		{"heart rate rounds down", domain.HeartRate, 71.4, 71},
		{"temperature tenth", domain.BodyTemperature, 36.649, 36.6},
		{"temperature up", domain.BodyTemperature, 36.65, 36.7},
		{"hydration whole mL", domain.Hydration, 249.5, 250},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.Round(tc.metric, tc.value); !almostEqual(got, tc.want, 0.0001) {
				t.Errorf("Round(%v, %v) = %v; want %v", tc.metric, tc.value, got, tc.want)
			}
		})
	}
}
