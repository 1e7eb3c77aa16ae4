package plan

import (
	"errors"
	"fmt"

	"fleetroute/internal/model"
)

// ErrLocation reports a job or vehicle location index outside the matrix.
var ErrLocation = errors.New("location index out of range")

// Instance is one fully specified routing problem: the augmented matrix, the
// demand vector over augmented index space, per-vehicle starts and capacities,
// and the location→job lookup used when decoding. It is built once per
// request and discarded after decoding.
type Instance struct {
	Matrix   *Matrix
	Jobs     []model.Job
	Vehicles []model.Vehicle

	Demands    []int64 // length N+1, indexed by location
	Capacities []int64 // per vehicle
	Starts     []int   // per vehicle, real location indices
	End        int     // shared virtual end node index

	jobAt map[int]model.Job // location → job
}

// Build validates locations and assembles an Instance. When two jobs share a
// location, the later job overwrites the earlier one in both the demand
// vector and the lookup; the model keys demand by location, so the last write
// wins. Callers that need per-job demand at a shared location must merge jobs
// upstream.
func Build(jobs []model.Job, vehicles []model.Vehicle, m *Matrix) (*Instance, error) {
	n := m.Locations()
	inst := &Instance{
		Matrix:   m,
		Jobs:     jobs,
		Vehicles: vehicles,
		Demands:  make([]int64, n+1),
		End:      m.End(),
		jobAt:    make(map[int]model.Job, len(jobs)),
	}
	for _, j := range jobs {
		if j.LocationIndex < 0 || j.LocationIndex >= n {
			return nil, fmt.Errorf("%w: job %s at %d, matrix has %d locations", ErrLocation, j.ID.Key(), j.LocationIndex, n)
		}
		inst.Demands[j.LocationIndex] = j.Demand()
		inst.jobAt[j.LocationIndex] = j
	}
	inst.Capacities = make([]int64, len(vehicles))
	inst.Starts = make([]int, len(vehicles))
	for i, v := range vehicles {
		if v.StartIndex < 0 || v.StartIndex >= n {
			return nil, fmt.Errorf("%w: vehicle %s starts at %d, matrix has %d locations", ErrLocation, v.ID.Key(), v.StartIndex, n)
		}
		inst.Capacities[i] = v.Cap()
		inst.Starts[i] = v.StartIndex
	}
	return inst, nil
}

// JobAt returns the job served at a location, if any. The virtual end node
// never resolves to a job.
func (in *Instance) JobAt(loc int) (model.Job, bool) {
	j, ok := in.jobAt[loc]
	return j, ok
}

// JobLocations returns the distinct locations that carry a job, in job input
// order (later duplicates skipped).
func (in *Instance) JobLocations() []int {
	seen := make(map[int]bool, len(in.jobAt))
	locs := make([]int, 0, len(in.jobAt))
	for _, j := range in.Jobs {
		if seen[j.LocationIndex] {
			continue
		}
		seen[j.LocationIndex] = true
		locs = append(locs, j.LocationIndex)
	}
	return locs
}
