package gradebook

import (
	"math"
	"sort"
)

// Stats summarises a sequence of grades. Average and StdDev are rounded to one decimal.
type Stats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
	StdDev  float64 `json:"std_dev"`
}

// Range returns Max - Min.
func (s Stats) Range() float64 {
	return s.Max - s.Min
}

// CalculateStats computes aggregate statistics using the population standard deviation.
// An empty input yields the zero Stats.
func CalculateStats(numbers []float64) Stats {
	if len(numbers) == 0 {
		return Stats{}
	}

	min, max, sum := numbers[0], numbers[0], 0.0
	for _, n := range numbers {
		sum += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	mean := sum / float64(len(numbers))

	var sqDiff float64
	for _, n := range numbers {
		sqDiff += (n - mean) * (n - mean)
	}

	return Stats{
		Average: Round1(mean),
		Min:     min,
		Max:     max,
		Count:   len(numbers),
		StdDev:  Round1(math.Sqrt(sqDiff / float64(len(numbers)))),
	}
}

type CategoryStats struct {
	Category Category `json:"category"`
	Stats
}

// GroupByCategory buckets the graded records by subject and sorts the groups by descending average.
// Missing grades are skipped.
func GroupByCategory(records []GradeRecord) []CategoryStats {
	buckets := make(map[Category][]float64)
	for _, r := range records {
		pct, ok := r.Percent()
		if !ok {
			continue
		}
		cat := Categorize(r.AssignmentName)
		buckets[cat] = append(buckets[cat], pct)
	}

	groups := make([]CategoryStats, 0, len(buckets))
	for _, cat := range Categories {
		if pcts, ok := buckets[cat]; ok {
			groups = append(groups, CategoryStats{Category: cat, Stats: CalculateStats(pcts)})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Average > groups[j].Average })
	return groups
}
