package api

import (
	"fmt"

	"fleetroute/internal/model"
)

// validateRouteRequest rejects payloads the problem builder cannot repair:
// negative durations, demands, or capacities. Location-index validation
// happens in the builder where the matrix dimension is known.
func validateRouteRequest(req *model.RouteRequest) error {
	for i, row := range req.Matrix {
		for j, d := range row {
			if d < 0 {
				return fmt.Errorf("matrix[%d][%d] must be >= 0", i, j)
			}
		}
	}
	for _, j := range req.Jobs {
		if j.Demand() < 0 {
			return fmt.Errorf("job %s delivery must be >= 0", j.ID.Key())
		}
	}
	for _, v := range req.Vehicles {
		if v.Cap() < 0 {
			return fmt.Errorf("vehicle %s capacity must be >= 0", v.ID.Key())
		}
	}
	return nil
}
