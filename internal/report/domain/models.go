package domain

import (
	"context"
	"errors"
)

// ErrNoData marks a state/year filter that matched no orders. The
// caller reports it and writes no file.
var ErrNoData = errors.New("no orders match the requested state and year")

// Row is one city line of the pivoted report: sales summed per fiscal
// quarter plus the row total.
type Row struct {
	City     string
	Quarters [4]float64
	Total    float64
}

// Service aggregates joined orders into the city × quarter pivot.
type Service interface {
	// Generate filters orders by exact state match and calendar year,
	// sums sale amounts by (city, quarter) and returns the pivot
	// sorted by total descending. Returns ErrNoData when the filter
	// matches nothing.
	Generate(ctx context.Context, state string, year int) ([]Row, error)
}
