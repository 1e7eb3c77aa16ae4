package opt

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrInfeasible is returned when no capacity-respecting assignment covering
// every stop was found within the search budget.
var ErrInfeasible = errors.New("no feasible assignment")

// unassignedPenalty dominates any realistic route cost so the search always
// prefers covering a stop over saving travel time.
const unassignedPenalty = int64(1) << 40

// Problem is a capacitated routing problem over an augmented duration matrix.
// Stops are the locations that must be visited; every vehicle departs from
// its start location and terminates at the shared zero-cost end node.
type Problem struct {
	Cost       func(i, j int) int64 // augmented index space
	Demands    []int64              // indexed by location
	Capacities []int64              // per vehicle
	Starts     []int                // per vehicle, location indices
	End        int                  // virtual end node index
	Stops      []int                // locations requiring a visit

	IterationsLimit int     // optional iteration cap
	InitialTemp     float64 // initial temperature for SA acceptance
	Cooling         float64 // cooling factor per iteration
}

// RoutePlan is one vehicle's visit order, as indices into Problem.Stops.
type RoutePlan struct {
	Vehicle int
	Order   []int
}

type Solution struct {
	Plans      []RoutePlan
	Unassigned []int
	Cost       int64
}

// Metrics captures search behavior for telemetry.
type Metrics struct {
	RemovalSelects   [2]int // random, related
	InsertSelects    [2]int // greedy, regret2
	Iterations       int
	Improvements     int
	AcceptedWorse    int
	BestCost         int64
	FinalCost        int64
	RemovalWeights   [2]float64
	InsertionWeights [2]float64
}

// Solve runs an ALNS-style search: a greedy capacity-respecting seed, then
// rounds of removal/reinsertion with local improvement under simulated
// annealing acceptance. The result is deterministic for a fixed seed and
// iteration limit. Stops left uncovered after the budget make the problem
// infeasible.
func Solve(p Problem, seed int64, timeBudget time.Duration) (Solution, Metrics, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if err := checkCapacities(p); err != nil {
		return Solution{}, Metrics{}, err
	}

	curr := greedySeed(p)
	best := clone(curr)
	remW := [2]float64{1, 1} // random, related
	insW := [2]float64{1, 1} // greedy, regret2
	temp := 1.0
	if p.InitialTemp > 0 {
		temp = p.InitialTemp
	}
	cool := 0.995
	if p.Cooling > 0 && p.Cooling < 1 {
		cool = p.Cooling
	}
	m := Metrics{BestCost: best.Cost}
	deadline := time.Now().Add(timeBudget)
	for len(p.Stops) > 0 && time.Now().Before(deadline) {
		m.Iterations++
		if p.IterationsLimit > 0 && m.Iterations > p.IterationsLimit {
			break
		}
		k := 1 + rng.Intn(3)
		op := selectOp(remW, rng)
		m.RemovalSelects[op]++
		ip := selectOp(insW, rng)
		m.InsertSelects[ip]++
		var removed []int
		switch op {
		case 0:
			removed = pickRandomStops(curr, k, rng)
		case 1:
			removed = relatedRemoval(p, curr, k, rng)
		}
		curr = removeStops(curr, removed)
		// re-attempt everything currently uncovered, not just the removals
		pending := append(removed, curr.Unassigned...)
		curr.Unassigned = nil
		switch ip {
		case 0:
			curr = greedyInsert(p, curr, pending)
		case 1:
			curr = regretInsert(p, curr, pending)
		}
		curr = twoOptImprove(p, curr)
		curr = relocateImprove(p, curr)
		curr = crossExchangeImprove(p, curr)
		curr.Cost = cost(p, curr)
		delta := float64(curr.Cost - best.Cost)
		if delta < 0 || rng.Float64() < math.Exp(-delta/(temp+1e-9)) {
			if curr.Cost < best.Cost {
				best = clone(curr)
				remW[op] += 0.1
				insW[ip] += 0.1
				m.Improvements++
				m.BestCost = best.Cost
			} else {
				remW[op] += 0.01
				insW[ip] += 0.01
				m.AcceptedWorse++
			}
		} else {
			remW[op] = math.Max(0.01, remW[op]*0.999)
			insW[ip] = math.Max(0.01, insW[ip]*0.999)
		}
		temp *= cool
	}
	m.FinalCost = best.Cost
	m.RemovalWeights = remW
	m.InsertionWeights = insW
	if len(best.Unassigned) > 0 {
		return Solution{}, m, ErrInfeasible
	}
	return best, m, nil
}

// Paths materializes the solution as per-vehicle walks in augmented index
// space, from each vehicle's start to the shared end node.
func (s Solution) Paths(p Problem) [][]int {
	paths := make([][]int, len(s.Plans))
	for i, pl := range s.Plans {
		path := make([]int, 0, len(pl.Order)+2)
		path = append(path, p.Starts[pl.Vehicle])
		for _, si := range pl.Order {
			path = append(path, p.Stops[si])
		}
		path = append(path, p.End)
		paths[i] = path
	}
	return paths
}

// checkCapacities rejects early when a single stop can never be served.
func checkCapacities(p Problem) error {
	if len(p.Stops) == 0 {
		return nil
	}
	if len(p.Capacities) == 0 {
		return ErrInfeasible
	}
	var maxCap int64
	for _, c := range p.Capacities {
		if c > maxCap {
			maxCap = c
		}
	}
	for _, loc := range p.Stops {
		if p.Demands[loc] > maxCap {
			return ErrInfeasible
		}
	}
	return nil
}

func clone(s Solution) Solution {
	out := Solution{Cost: s.Cost}
	out.Plans = make([]RoutePlan, len(s.Plans))
	for i, pl := range s.Plans {
		out.Plans[i] = RoutePlan{Vehicle: pl.Vehicle, Order: append([]int(nil), pl.Order...)}
	}
	out.Unassigned = append([]int(nil), s.Unassigned...)
	return out
}

func greedySeed(p Problem) Solution {
	n := len(p.Stops)
	used := make([]bool, n)
	plans := make([]RoutePlan, len(p.Capacities))
	for vi := range plans {
		plans[vi] = RoutePlan{Vehicle: vi, Order: []int{}}
	}
	assigned := 0
	for assigned < n {
		progress := false
		for vi := range plans {
			bestIdx := -1
			bestDelta := int64(math.MaxInt64)
			for i := 0; i < n; i++ {
				if used[i] || !feasibleAdd(p, plans[vi], vi, i) {
					continue
				}
				d := deltaCostAppend(p, plans[vi], vi, i)
				if d < bestDelta {
					bestDelta = d
					bestIdx = i
				}
			}
			if bestIdx >= 0 {
				plans[vi].Order = append(plans[vi].Order, bestIdx)
				used[bestIdx] = true
				assigned++
				progress = true
				if assigned == n {
					break
				}
			}
		}
		if !progress {
			break
		}
	}
	sol := Solution{Plans: plans}
	for i := 0; i < n; i++ {
		if !used[i] {
			sol.Unassigned = append(sol.Unassigned, i)
		}
	}
	sol.Cost = cost(p, sol)
	return sol
}

func pickRandomStops(sol Solution, k int, rng *rand.Rand) []int {
	all := []int{}
	for _, pl := range sol.Plans {
		all = append(all, pl.Order...)
	}
	if len(all) == 0 {
		return nil
	}
	removed := []int{}
	for i := 0; i < k && len(all) > 0; i++ {
		j := rng.Intn(len(all))
		removed = append(removed, all[j])
		all = append(all[:j], all[j+1:]...)
	}
	return removed
}

// relatedRemoval removes k stops close to a random seed stop by travel
// duration, so reinsertion can reshuffle a whole neighborhood.
func relatedRemoval(p Problem, sol Solution, k int, rng *rand.Rand) []int {
	assigned := []int{}
	for _, pl := range sol.Plans {
		assigned = append(assigned, pl.Order...)
	}
	if len(assigned) == 0 {
		return nil
	}
	seedIdx := assigned[rng.Intn(len(assigned))]
	type pair struct {
		idx   int
		score int64
	}
	sLoc := p.Stops[seedIdx]
	rel := []pair{}
	for _, idx := range assigned {
		if idx == seedIdx {
			continue
		}
		loc := p.Stops[idx]
		rel = append(rel, pair{idx: idx, score: p.Cost(sLoc, loc) + p.Cost(loc, sLoc)})
	}
	for i := 0; i < len(rel); i++ {
		for j := i + 1; j < len(rel); j++ {
			if rel[j].score < rel[i].score {
				rel[i], rel[j] = rel[j], rel[i]
			}
		}
	}
	removed := []int{seedIdx}
	for i := 0; i < len(rel) && len(removed) < k; i++ {
		removed = append(removed, rel[i].idx)
	}
	return removed
}

func removeStops(sol Solution, removed []int) Solution {
	if len(removed) == 0 {
		return sol
	}
	rm := map[int]bool{}
	for _, i := range removed {
		rm[i] = true
	}
	out := Solution{Unassigned: sol.Unassigned, Plans: make([]RoutePlan, len(sol.Plans))}
	for i := range sol.Plans {
		out.Plans[i].Vehicle = sol.Plans[i].Vehicle
		out.Plans[i].Order = []int{}
		for _, idx := range sol.Plans[i].Order {
			if !rm[idx] {
				out.Plans[i].Order = append(out.Plans[i].Order, idx)
			}
		}
	}
	return out
}

// greedyInsert places each pending stop at its cheapest feasible position.
// Stops with no feasible position are left unassigned, never forced.
func greedyInsert(p Problem, sol Solution, pending []int) Solution {
	for len(pending) > 0 {
		bestPlan, bestPos, bestNode := -1, -1, 0
		bestCost := int64(math.MaxInt64)
		for ni, idx := range pending {
			for vi, pl := range sol.Plans {
				if !feasibleAdd(p, pl, vi, idx) {
					continue
				}
				for pos := 0; pos <= len(pl.Order); pos++ {
					c := deltaCostInsert(p, pl, vi, idx, pos)
					if c < bestCost {
						bestCost = c
						bestPlan = vi
						bestPos = pos
						bestNode = ni
					}
				}
			}
		}
		if bestPlan == -1 {
			sol.Unassigned = append(sol.Unassigned, pending...)
			break
		}
		sol.Plans[bestPlan].Order = insertAt(sol.Plans[bestPlan].Order, bestPos, pending[bestNode])
		pending = append(pending[:bestNode], pending[bestNode+1:]...)
	}
	sol.Cost = cost(p, sol)
	return sol
}

// regretInsert prefers the stop whose second-best placement is much worse
// than its best one (regret-2), committing hard-to-place stops first.
func regretInsert(p Problem, sol Solution, pending []int) Solution {
	for len(pending) > 0 {
		bestNode, bestPlan, bestPos := -1, -1, -1
		bestRegret := int64(-1)
		bestC1 := int64(math.MaxInt64)
		for ni, idx := range pending {
			c1 := int64(math.MaxInt64)
			c2 := int64(math.MaxInt64)
			bp, bpos := -1, -1
			for vi, pl := range sol.Plans {
				if !feasibleAdd(p, pl, vi, idx) {
					continue
				}
				for pos := 0; pos <= len(pl.Order); pos++ {
					c := deltaCostInsert(p, pl, vi, idx, pos)
					if c < c1 {
						c2 = c1
						c1 = c
						bp = vi
						bpos = pos
					} else if c < c2 {
						c2 = c
					}
				}
			}
			if bp == -1 {
				continue
			}
			regret := int64(math.MaxInt64)
			if c2 < int64(math.MaxInt64) {
				regret = c2 - c1
			}
			if regret > bestRegret || (regret == bestRegret && c1 < bestC1) {
				bestRegret = regret
				bestNode = ni
				bestPlan = bp
				bestPos = bpos
				bestC1 = c1
			}
		}
		if bestNode == -1 {
			sol.Unassigned = append(sol.Unassigned, pending...)
			break
		}
		sol.Plans[bestPlan].Order = insertAt(sol.Plans[bestPlan].Order, bestPos, pending[bestNode])
		pending = append(pending[:bestNode], pending[bestNode+1:]...)
	}
	sol.Cost = cost(p, sol)
	return sol
}

func insertAt(order []int, pos, v int) []int {
	if pos >= len(order) {
		return append(order, v)
	}
	order = append(order[:pos+1], order[pos:]...)
	order[pos] = v
	return order
}

// twoOptImprove reverses intra-route segments while that lowers the route
// cost. Reordering never changes a route's load, so no capacity re-check.
func twoOptImprove(p Problem, sol Solution) Solution {
	for vi := range sol.Plans {
		pl := sol.Plans[vi]
		n := len(pl.Order)
		improved := true
		for improved {
			improved = false
			for i := 0; i < n-1; i++ {
				for k := i + 1; k < n; k++ {
					cand := RoutePlan{Vehicle: pl.Vehicle, Order: append([]int(nil), pl.Order...)}
					for a, b := i, k; a < b; a, b = a+1, b-1 {
						cand.Order[a], cand.Order[b] = cand.Order[b], cand.Order[a]
					}
					if planCost(p, cand) < planCost(p, pl) {
						pl = cand
						improved = true
					}
				}
			}
		}
		sol.Plans[vi] = pl
	}
	sol.Cost = cost(p, sol)
	return sol
}

// relocateImprove moves a single stop to a cheaper position in another route
// when that route has capacity headroom and the total cost drops.
func relocateImprove(p Problem, sol Solution) Solution {
	if len(sol.Plans) < 2 {
		return sol
	}
	improved := true
	for improved {
		improved = false
		for a := range sol.Plans {
			for i := 0; i < len(sol.Plans[a].Order); i++ {
				idx := sol.Plans[a].Order[i]
				trimmed := RoutePlan{Vehicle: sol.Plans[a].Vehicle}
				trimmed.Order = append(append([]int(nil), sol.Plans[a].Order[:i]...), sol.Plans[a].Order[i+1:]...)
				gain := planCost(p, sol.Plans[a]) - planCost(p, trimmed)
				for b := range sol.Plans {
					if b == a || !feasibleAdd(p, sol.Plans[b], b, idx) {
						continue
					}
					for pos := 0; pos <= len(sol.Plans[b].Order); pos++ {
						if deltaCostInsert(p, sol.Plans[b], b, idx, pos) < gain {
							sol.Plans[a] = trimmed
							sol.Plans[b].Order = insertAt(append([]int(nil), sol.Plans[b].Order...), pos, idx)
							improved = true
							break
						}
					}
					if improved {
						break
					}
				}
				if improved {
					break
				}
			}
			if improved {
				break
			}
		}
	}
	sol.Cost = cost(p, sol)
	return sol
}

// crossExchangeImprove swaps single stops between routes when both routes
// stay within capacity and the combined cost drops.
func crossExchangeImprove(p Problem, sol Solution) Solution {
	m := len(sol.Plans)
	if m < 2 {
		return sol
	}
	improved := true
	for improved {
		improved = false
		for a := 0; a < m; a++ {
			for b := a + 1; b < m; b++ {
				pa := sol.Plans[a]
				pb := sol.Plans[b]
				for i := 0; i < len(pa.Order); i++ {
					for j := 0; j < len(pb.Order); j++ {
						ca := RoutePlan{Vehicle: pa.Vehicle, Order: append([]int(nil), pa.Order...)}
						cb := RoutePlan{Vehicle: pb.Vehicle, Order: append([]int(nil), pb.Order...)}
						ca.Order[i], cb.Order[j] = cb.Order[j], ca.Order[i]
						if planLoad(p, ca) > p.Capacities[a] || planLoad(p, cb) > p.Capacities[b] {
							continue
						}
						before := planCost(p, pa) + planCost(p, pb)
						after := planCost(p, ca) + planCost(p, cb)
						if after < before {
							sol.Plans[a] = ca
							sol.Plans[b] = cb
							pa = ca
							pb = cb
							improved = true
						}
					}
				}
			}
		}
	}
	sol.Cost = cost(p, sol)
	return sol
}

func feasibleAdd(p Problem, pl RoutePlan, vi, idx int) bool {
	return planLoad(p, pl)+p.Demands[p.Stops[idx]] <= p.Capacities[vi]
}

func planLoad(p Problem, pl RoutePlan) int64 {
	var load int64
	for _, si := range pl.Order {
		load += p.Demands[p.Stops[si]]
	}
	return load
}

func deltaCostAppend(p Problem, pl RoutePlan, vi, idx int) int64 {
	from := p.Starts[vi]
	if len(pl.Order) > 0 {
		from = p.Stops[pl.Order[len(pl.Order)-1]]
	}
	// the follow-on arc to the end node is free, so the delta is the arc in
	return p.Cost(from, p.Stops[idx])
}

func deltaCostInsert(p Problem, pl RoutePlan, vi, idx, pos int) int64 {
	loc := p.Stops[idx]
	prev := p.Starts[vi]
	if pos > 0 {
		prev = p.Stops[pl.Order[pos-1]]
	}
	if pos == len(pl.Order) {
		return p.Cost(prev, loc)
	}
	next := p.Stops[pl.Order[pos]]
	return p.Cost(prev, loc) + p.Cost(loc, next) - p.Cost(prev, next)
}

func planCost(p Problem, pl RoutePlan) int64 {
	if len(pl.Order) == 0 {
		return 0
	}
	c := p.Cost(p.Starts[pl.Vehicle], p.Stops[pl.Order[0]])
	for i := 1; i < len(pl.Order); i++ {
		c += p.Cost(p.Stops[pl.Order[i-1]], p.Stops[pl.Order[i]])
	}
	return c
}

func cost(p Problem, s Solution) int64 {
	total := int64(0)
	for _, pl := range s.Plans {
		total += planCost(p, pl)
	}
	return total + unassignedPenalty*int64(len(s.Unassigned))
}

func selectOp(weights [2]float64, rng *rand.Rand) int {
	sum := weights[0] + weights[1]
	if sum <= 0 {
		return 0
	}
	if rng.Float64()*sum <= weights[0] {
		return 0
	}
	return 1
}
