package scoring

import (
	"math"
	"sort"
)

// exposureRadarScale is the per-category exposure at which the radar axis
// reaches zero.
const exposureRadarScale = 10_000_000

// ExposureRadar converts a per-category exposure breakdown into 0-100 chart
// axes, where 100 means no exposure. Axes are sorted by category name.
func ExposureRadar(byCategory map[string]float64) []CategoryScore {
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	radar := make([]CategoryScore, 0, len(categories))
	for _, category := range categories {
		score := max(0, 100-byCategory[category]/exposureRadarScale*100)
		radar = append(radar, CategoryScore{
			Category: category,
			Score:    int(math.Round(score)),
		})
	}
	return radar
}
