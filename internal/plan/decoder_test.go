package plan

import (
	"testing"

	"fleetroute/internal/model"
)

func TestDecodeTrimsTrailingDeadMileage(t *testing.T) {
	// 0 -> jobA at 1, then a detour through 2 before terminating
	m := testMatrix(t, [][]float64{
		{0, 5, 9},
		{5, 0, 7},
		{9, 7, 0},
	})
	jobs := []model.Job{{ID: testID(t, `"jobA"`), LocationIndex: 1, Delivery: []float64{1}}}
	vehicles := []model.Vehicle{{ID: testID(t, `"v1"`), Capacity: []float64{5}, StartIndex: 0}}
	inst, err := Build(jobs, vehicles, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := Decode(inst, [][]int{{0, 1, 2, 3}})
	rt := res.Routes["v1"]
	if len(rt.Jobs) != 1 || rt.Jobs[0].Key() != "jobA" {
		t.Fatalf("jobs: %v", rt.Jobs)
	}
	// 0->1 counts (5); the 1->2 detour (7) and 2->end (0) happen after the
	// last real job and must be trimmed
	if rt.DeliveryDuration != 5 {
		t.Fatalf("duration: got %d, want 5", rt.DeliveryDuration)
	}
	if res.TotalDeliveryDuration != 5 {
		t.Fatalf("total: got %d", res.TotalDeliveryDuration)
	}
}

func TestDecodeMidRouteDeadMileageCounts(t *testing.T) {
	// detour between two jobs: all mileage up to the last job counts
	m := testMatrix(t, [][]float64{
		{0, 5, 9, 4},
		{5, 0, 7, 6},
		{9, 7, 0, 2},
		{4, 6, 2, 0},
	})
	jobs := []model.Job{
		{ID: testID(t, `"a"`), LocationIndex: 1, Delivery: []float64{1}},
		{ID: testID(t, `"b"`), LocationIndex: 3, Delivery: []float64{1}},
	}
	vehicles := []model.Vehicle{{ID: testID(t, `"v1"`), Capacity: []float64{5}, StartIndex: 0}}
	inst, err := Build(jobs, vehicles, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// 0 ->5 1 ->7 2 ->2 3 ->0 end: the 2-hop detour ends at job b, so nothing
	// is trimmed
	res := Decode(inst, [][]int{{0, 1, 2, 3, 4}})
	rt := res.Routes["v1"]
	if len(rt.Jobs) != 2 || rt.Jobs[0].Key() != "a" || rt.Jobs[1].Key() != "b" {
		t.Fatalf("jobs: %v", rt.Jobs)
	}
	if rt.DeliveryDuration != 14 {
		t.Fatalf("duration: got %d, want 14", rt.DeliveryDuration)
	}
}

func TestDecodeEmptyRouteIsZero(t *testing.T) {
	m := testMatrix(t, [][]float64{{0, 5}, {5, 0}})
	vehicles := []model.Vehicle{{ID: testID(t, `"idle"`), Capacity: []float64{5}, StartIndex: 1}}
	inst, err := Build(nil, vehicles, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := Decode(inst, [][]int{{1, 2}})
	rt := res.Routes["idle"]
	if len(rt.Jobs) != 0 {
		t.Fatalf("jobs: %v", rt.Jobs)
	}
	if rt.DeliveryDuration != 0 || res.TotalDeliveryDuration != 0 {
		t.Fatalf("duration: %d total %d", rt.DeliveryDuration, res.TotalDeliveryDuration)
	}
}

func TestDecodeNumericVehicleKey(t *testing.T) {
	m := testMatrix(t, [][]float64{{0, 5}, {5, 0}})
	jobs := []model.Job{{ID: testID(t, `7`), LocationIndex: 1, Delivery: []float64{1}}}
	vehicles := []model.Vehicle{{ID: testID(t, `42`), Capacity: []float64{5}, StartIndex: 0}}
	inst, err := Build(jobs, vehicles, m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := Decode(inst, [][]int{{0, 1, 2}})
	rt, ok := res.Routes["42"]
	if !ok {
		t.Fatalf("numeric vehicle id not keyed by literal: %v", res.Routes)
	}
	if len(rt.Jobs) != 1 || rt.Jobs[0].Key() != "7" {
		t.Fatalf("jobs: %v", rt.Jobs)
	}
}
