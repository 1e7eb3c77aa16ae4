package plan

import "fleetroute/internal/model"

// Decode reconstructs the response from raw per-vehicle paths in augmented
// index space. paths must be aligned with inst.Vehicles and each path runs
// from the vehicle's start to the virtual end node.
//
// Arc costs are attributed as they accrue, but mileage whose destination is
// not a job location stays pending: a later job visit finalizes it (the
// travel that got the vehicle there counts), while pending mileage still
// outstanding at the end node is trailing dead mileage and is trimmed from
// the route's duration. A vehicle that visits no job reports 0.
func Decode(inst *Instance, paths [][]int) model.RouteResponse {
	res := model.RouteResponse{Routes: make(map[string]model.VehicleRoute, len(inst.Vehicles))}
	for vi, v := range inst.Vehicles {
		route := model.VehicleRoute{Jobs: []model.ID{}}
		if vi < len(paths) {
			route = decodePath(inst, paths[vi])
		}
		res.Routes[v.ID.Key()] = route
		res.TotalDeliveryDuration += route.DeliveryDuration
	}
	return res
}

func decodePath(inst *Instance, path []int) model.VehicleRoute {
	jobs := []model.ID{}
	seen := map[int]bool{}
	var total, pending int64
	for i := 1; i < len(path); i++ {
		arc := inst.Matrix.Cost(path[i-1], path[i])
		total += arc
		dest := path[i]
		if job, ok := inst.JobAt(dest); ok && dest != inst.End {
			if !seen[dest] {
				jobs = append(jobs, job.ID)
				seen[dest] = true
			}
			pending = 0
		} else {
			pending += arc
		}
	}
	// whatever is still pending was spent after the last real job visit
	total -= pending
	return model.VehicleRoute{Jobs: jobs, DeliveryDuration: total}
}
