// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Number covers the numeric kinds the summary helpers accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// avg is a util function that calculates the mean of a data list
func avg[T Number](list []T) float64 {
	if len(list) == 0 {
		return 0
	}
	var sum T
	for _, v := range list {
		sum += v
	}
	return float64(sum) / float64(len(list))
}

// percentile is a util function that calculates the p-th percentile of a
// data list with linear interpolation between the two nearest ranks.
// The input need not be sorted.
func percentile[T Number](data []T, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	vals := make([]float64, len(data))
	for i, v := range data {
		vals[i] = float64(v)
	}
	sort.Float64s(vals)

	if p <= 0 {
		return vals[0]
	}
	if p >= 100 {
		return vals[len(vals)-1]
	}
	rank := p / 100 * float64(len(vals)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return vals[lower]
	}
	return vals[lower] + (vals[upper]-vals[lower])*(rank-float64(lower))
}
