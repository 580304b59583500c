package domain

// Category is a clinical-style band for a metric average.
type Category string

const (
	CategoryNone Category = ""

	// Heart rate bands.
	CategoryBradycardia Category = "Bradycardia"
	CategoryNormal      Category = "Normal"
	CategoryElevated    Category = "Elevated"
	CategoryHigh        Category = "High"
	CategoryVeryHigh    Category = "Very High"

	// Body temperature bands.
	CategoryLow           Category = "Low"
	CategoryMildFever     Category = "Mild Fever"
	CategoryModerateFever Category = "Moderate Fever"
	CategoryHighFever     Category = "High Fever"

	// Hydration bands, applied to the day's average entry volume.
	CategorySparse    Category = "Sparse"
	CategoryModerate  Category = "Moderate"
	CategoryGenerous  Category = "Generous"
	CategoryExcessive Category = "Excessive"
)

// Categorize maps an average value onto the metric's threshold ladder.
// Upper bounds are inclusive, so a boundary value resolves to the lower
// band. The ordering of the ladders must not change.
func Categorize(m MetricType, avg float64) Category {
	switch m {
	case HeartRate:
		switch {
		case avg < 60:
			return CategoryBradycardia
		case avg <= 100:
			return CategoryNormal
		case avg <= 120:
			return CategoryElevated
		case avg <= 150:
			return CategoryHigh
		default:
			return CategoryVeryHigh
		}
	case BodyTemperature:
		switch {
		case avg < 36.1:
			return CategoryLow
		case avg <= 37.2:
			return CategoryNormal
		case avg <= 38.0:
			return CategoryMildFever
		case avg <= 39.0:
			return CategoryModerateFever
		default:
			return CategoryHighFever
		}
	case Hydration:
		switch {
		case avg < 150:
			return CategorySparse
		case avg <= 350:
			return CategoryModerate
		case avg <= 600:
			return CategoryGenerous
		default:
			return CategoryExcessive
		}
	}
	return CategoryNone
}
