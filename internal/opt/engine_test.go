package opt

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func matrixCost(m [][]int64) func(i, j int) int64 {
	return func(i, j int) int64 { return m[i][j] }
}

// one job reachable for 5, open route: the classic single-vehicle case
func singleJobProblem() Problem {
	// 3 locations + end node 3
	m := [][]int64{
		{0, 5, 0, 0},
		{5, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	return Problem{
		Cost:            matrixCost(m),
		Demands:         []int64{0, 2, 0, 0},
		Capacities:      []int64{5},
		Starts:          []int{0},
		End:             3,
		Stops:           []int{1},
		IterationsLimit: 50,
	}
}

func TestSolveSingleJob(t *testing.T) {
	p := singleJobProblem()
	sol, met, err := Solve(p, 1, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Plans) != 1 || len(sol.Plans[0].Order) != 1 || sol.Plans[0].Order[0] != 0 {
		t.Fatalf("plans: %+v", sol.Plans)
	}
	if sol.Cost != 5 {
		t.Fatalf("cost: got %d, want 5", sol.Cost)
	}
	if met.BestCost != 5 {
		t.Fatalf("metrics best cost: %d", met.BestCost)
	}
	paths := sol.Paths(p)
	if !reflect.DeepEqual(paths[0], []int{0, 1, 3}) {
		t.Fatalf("path: %v", paths[0])
	}
}

func TestSolveInfeasibleWhenDemandExceedsEveryCapacity(t *testing.T) {
	p := singleJobProblem()
	p.Demands = []int64{0, 9, 0, 0}
	if _, _, err := Solve(p, 1, time.Second); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("want ErrInfeasible, got %v", err)
	}
}

func TestSolveInfeasibleWhenDemandCannotBePartitioned(t *testing.T) {
	// two jobs of demand 3 and 4: each fits alone, never together
	m := [][]int64{
		{0, 2, 3, 0},
		{2, 0, 4, 0},
		{3, 4, 0, 0},
		{0, 0, 0, 0},
	}
	p := Problem{
		Cost:            matrixCost(m),
		Demands:         []int64{0, 3, 4, 0},
		Capacities:      []int64{5},
		Starts:          []int{0},
		End:             3,
		Stops:           []int{1, 2},
		IterationsLimit: 100,
	}
	if _, _, err := Solve(p, 1, time.Second); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("want ErrInfeasible, got %v", err)
	}
}

func TestSolveNoVehicles(t *testing.T) {
	p := singleJobProblem()
	p.Capacities = nil
	p.Starts = nil
	if _, _, err := Solve(p, 1, time.Second); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("want ErrInfeasible, got %v", err)
	}
}

func TestSolveIdleVehicleKeepsEmptyPlan(t *testing.T) {
	// vehicle 0 has zero capacity, vehicle 1 does all the work
	m := [][]int64{
		{0, 5, 0, 0},
		{5, 0, 0, 0},
		{0, 3, 0, 0},
		{0, 0, 0, 0},
	}
	p := Problem{
		Cost:            matrixCost(m),
		Demands:         []int64{0, 2, 0, 0},
		Capacities:      []int64{0, 5},
		Starts:          []int{0, 2},
		End:             3,
		Stops:           []int{1},
		IterationsLimit: 100,
	}
	sol, _, err := Solve(p, 1, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Plans) != 2 {
		t.Fatalf("plans: %+v", sol.Plans)
	}
	if len(sol.Plans[0].Order) != 0 {
		t.Fatalf("zero-capacity vehicle got work: %+v", sol.Plans[0])
	}
	if len(sol.Plans[1].Order) != 1 {
		t.Fatalf("working vehicle plan: %+v", sol.Plans[1])
	}
	if sol.Cost != 3 {
		t.Fatalf("cost: got %d, want 3", sol.Cost)
	}
}

func TestSolvePartitionAndCapacity(t *testing.T) {
	// 5 stops, 2 vehicles; asymmetric durations
	m := [][]int64{
		{0, 4, 7, 3, 9, 6, 0},
		{5, 0, 2, 8, 4, 7, 0},
		{7, 3, 0, 5, 6, 2, 0},
		{2, 9, 4, 0, 3, 8, 0},
		{8, 5, 6, 2, 0, 4, 0},
		{6, 7, 3, 9, 5, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
	}
	p := Problem{
		Cost:            matrixCost(m),
		Demands:         []int64{0, 2, 3, 1, 4, 2, 0},
		Capacities:      []int64{7, 6},
		Starts:          []int{0, 0},
		End:             6,
		Stops:           []int{1, 2, 3, 4, 5},
		IterationsLimit: 500,
	}
	sol, _, err := Solve(p, 7, 2*time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	seen := map[int]int{}
	for vi, pl := range sol.Plans {
		var load int64
		for _, si := range pl.Order {
			seen[si]++
			load += p.Demands[p.Stops[si]]
		}
		if load > p.Capacities[vi] {
			t.Fatalf("vehicle %d over capacity: %d > %d", vi, load, p.Capacities[vi])
		}
	}
	for si := range p.Stops {
		if seen[si] != 1 {
			t.Fatalf("stop %d assigned %d times", si, seen[si])
		}
	}
}

func TestSolveDeterministicForFixedSeed(t *testing.T) {
	p := Problem{}
	runs := make([]Solution, 2)
	for i := range runs {
		p = Problem{
			Cost: matrixCost([][]int64{
				{0, 4, 7, 3, 0},
				{5, 0, 2, 8, 0},
				{7, 3, 0, 5, 0},
				{2, 9, 4, 0, 0},
				{0, 0, 0, 0, 0},
			}),
			Demands:         []int64{0, 2, 3, 1, 0},
			Capacities:      []int64{4, 4},
			Starts:          []int{0, 0},
			End:             4,
			Stops:           []int{1, 2, 3},
			IterationsLimit: 200,
		}
		sol, _, err := Solve(p, 99, 5*time.Second)
		if err != nil {
			t.Fatalf("Solve run %d: %v", i, err)
		}
		runs[i] = sol
	}
	if !reflect.DeepEqual(runs[0], runs[1]) {
		t.Fatalf("solutions differ:\n%+v\n%+v", runs[0], runs[1])
	}
}

func TestSolveEmptyStops(t *testing.T) {
	p := singleJobProblem()
	p.Stops = nil
	sol, _, err := Solve(p, 1, time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Plans) != 1 || len(sol.Plans[0].Order) != 0 || sol.Cost != 0 {
		t.Fatalf("solution: %+v", sol)
	}
}
