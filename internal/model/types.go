package model

import (
	"encoding/json"
	"time"
)

// ID is an opaque job or vehicle identifier. The wire format allows any JSON
// scalar, so the raw token is kept verbatim and echoed back unchanged in
// responses.
type ID struct {
	raw json.RawMessage
}

func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	id.raw = append(id.raw[:0], b...)
	return nil
}

// Key renders the identifier as a map key: JSON strings are unquoted, every
// other scalar keeps its literal form.
func (id ID) Key() string {
	var s string
	if err := json.Unmarshal(id.raw, &s); err == nil {
		return s
	}
	return string(id.raw)
}

// RouteRequest is the inbound payload for POST /getRoute.
type RouteRequest struct {
	Matrix   [][]float64 `json:"matrix"`
	Jobs     []Job       `json:"jobs"`
	Vehicles []Vehicle   `json:"vehicles"`
}

type Job struct {
	ID            ID        `json:"id"`
	LocationIndex int       `json:"location_index"`
	Delivery      []float64 `json:"delivery"`
}

// Demand returns the scalar delivery quantity. Only the first element of the
// delivery array is meaningful; a missing array means zero demand.
func (j Job) Demand() int64 {
	if len(j.Delivery) == 0 {
		return 0
	}
	return int64(j.Delivery[0])
}

type Vehicle struct {
	ID         ID        `json:"id"`
	Capacity   []float64 `json:"capacity"`
	StartIndex int       `json:"start_index"`
}

// Cap returns the scalar vehicle capacity, first element of the capacity array.
func (v Vehicle) Cap() int64 {
	if len(v.Capacity) == 0 {
		return 0
	}
	return int64(v.Capacity[0])
}

// VehicleRoute is one vehicle's decoded visit sequence and its attributable
// travel duration.
type VehicleRoute struct {
	Jobs             []ID  `json:"jobs"`
	DeliveryDuration int64 `json:"delivery_duration"`
}

// RouteResponse is the success payload for POST /getRoute. Routes are keyed
// by the vehicle identifier's string form.
type RouteResponse struct {
	TotalDeliveryDuration int64                   `json:"total_delivery_duration"`
	Routes                map[string]VehicleRoute `json:"routes"`
}

// SolveRecord is per-solve telemetry kept by the store. It holds counts and
// solver stats only, never the solved routes themselves.
type SolveRecord struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
	Jobs       int       `json:"jobs"`
	Vehicles   int       `json:"vehicles"`
	Status     string    `json:"status"` // solved, infeasible, rejected
	SolveMs    int64     `json:"solveMs"`
	BestCost   int64     `json:"bestCost"`
	Iterations int       `json:"iterations"`
}
