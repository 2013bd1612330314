package sections

import (
	"sort"

	"github.com/sdejongh/docrecon/pkg/models"
)

// Summarize computes the distribution of values. Percentiles take the
// element at floor(n*p) of the ascending list; the median averages the two
// middle elements of an even-sized list.
func Summarize(values []float64) models.SectionStatistics {
	stats := models.SectionStatistics{Sections: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	stats.Min = sorted[0]
	stats.Max = sorted[n-1]
	stats.Mean = sum / float64(n)
	if n%2 == 1 {
		stats.Median = sorted[n/2]
	} else {
		stats.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	stats.P90 = percentile(sorted, 0.90)
	stats.P95 = percentile(sorted, 0.95)
	return stats
}

func percentile(sorted []float64, p float64) float64 {
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}
