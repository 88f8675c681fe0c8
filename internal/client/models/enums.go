package models

// Wire values follow the server's JSON vocabulary; the same strings are
// stored in the local database so rows round-trip without mapping tables.

// TempUnit is the unit of the room-temperature input.
type TempUnit string

const (
	TempCelsius    TempUnit = "CELSIUS"
	TempFahrenheit TempUnit = "FAHRENHEIT"
	TempKelvin     TempUnit = "KELVIN"
)

// WeightUnit is the unit of the body-weight input.
type WeightUnit string

const (
	WeightKilogram WeightUnit = "KILOGRAM"
	WeightPound    WeightUnit = "POUND"
)

// WaterUnit is the unit of the logged drink amount.
type WaterUnit string

const (
	WaterMl      WaterUnit = "ML"
	WaterOz      WaterUnit = "OZ"
	WaterGlasses WaterUnit = "GLASSES"
)

// ActivityLevel scales the daily requirement. Factor is ml per kg of body
// weight.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "LOW"
	ActivityMedium ActivityLevel = "MEDIUM"
	ActivityHigh   ActivityLevel = "HIGH"
)

// Factor returns the ml-per-kg multiplier for the level. Unknown values
// fall back to the low-activity factor.
func (a ActivityLevel) Factor() float64 {
	switch a {
	case ActivityMedium:
		return 40.0
	case ActivityHigh:
		return 45.0
	default:
		return 35.0
	}
}

// Gender adjusts the daily requirement.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)
