package util

import "math"

const DefaultPageSize = 10

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// Round2 rounds a money amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
