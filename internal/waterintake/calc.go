// Package waterintake computes the recommended daily water intake.
// Pure functions, no I/O; the sync core calls them after the user confirms
// a form.
package waterintake

import "github.com/dzaky3022/wincal/internal/client/models"

// Milliliters returns the recommended daily intake in ml.
//
// Base requirement is body weight (kg) times the activity factor, adjusted
// upward in hot environments and for men.
func Milliliters(weight float64, weightUnit models.WeightUnit, temp float64, tempUnit models.TempUnit, gender models.Gender, level models.ActivityLevel) float64 {
	return weightKg(weight, weightUnit) * level.Factor() *
		(1 + climateAdjustment(temp, tempUnit)) *
		(1 + genderAdjustment(gender))
}

// Liters is Milliliters scaled to liters.
func Liters(weight float64, weightUnit models.WeightUnit, temp float64, tempUnit models.TempUnit, gender models.Gender, level models.ActivityLevel) float64 {
	return Milliliters(weight, weightUnit, temp, tempUnit, gender, level) / 1000
}

// Percentage reports how much of the recommended amount was consumed.
func Percentage(consumedMl, recommendedMl float64) float64 {
	return consumedMl / recommendedMl * 100
}

// ToMilliliters normalizes a drink amount to ml. A glass counts as 250 ml.
func ToMilliliters(amount float64, unit models.WaterUnit) float64 {
	switch unit {
	case models.WaterOz:
		return amount * 29.5735
	case models.WaterGlasses:
		return amount * 250
	default:
		return amount
	}
}

func weightKg(weight float64, unit models.WeightUnit) float64 {
	if unit == models.WeightPound {
		return weight / 2.205
	}
	return weight
}

func climateAdjustment(temp float64, unit models.TempUnit) float64 {
	var celsius float64
	switch unit {
	case models.TempFahrenheit:
		celsius = (temp - 32) / 1.8
	case models.TempKelvin:
		celsius = temp - 273.15
	default:
		celsius = temp
	}
	switch {
	case celsius < 15.0:
		return -0.05
	case celsius <= 30.0:
		return 0.0
	default:
		return 0.10
	}
}

func genderAdjustment(g models.Gender) float64 {
	if g == models.GenderMale {
		return 0.10
	}
	return 0.0
}
