package recovery

import "time"

// Strategy names the recovery approach chosen for a piece count.
type Strategy string

// Recovery strategies by scale.
const (
	StrategyDual         Strategy = "dual"         // up to 4 pieces
	StrategyHierarchical Strategy = "hierarchical" // up to 8 pieces
	StrategyFederated    Strategy = "federated"    // above 8 pieces
)

// baseStepTime is the synthetic per-step time unit for plan estimates.
const baseStepTime = 250 * time.Millisecond

// Step is one named unit of a recovery plan.
type Step struct {
	Name      string   // Name identifies the step
	DependsOn []string // DependsOn lists prerequisite step names
	Weight    float64  // Weight is the step's complexity multiplier
}

// Plan describes how a partitioned vote population would be recovered.
// It is diagnostic output; it does not alter recovered certificates.
type Plan struct {
	Strategy   Strategy      // Strategy is the chosen approach
	PieceCount int           // PieceCount is the partition's piece count
	Steps      []Step        // Steps is the ordered step list
	Estimated  time.Duration // Estimated is the synthetic total duration
}

// NewPlan classifies a piece count into a strategy and emits its ordered
// step list with a synthetic time estimate.
func NewPlan(pieceCount int) *Plan {
	plan := &Plan{PieceCount: pieceCount}

	switch {
	case pieceCount <= 4:
		plan.Strategy = StrategyDual
		plan.Steps = dualSteps()
	case pieceCount <= 8:
		plan.Strategy = StrategyHierarchical
		plan.Steps = hierarchicalSteps()
	default:
		plan.Strategy = StrategyFederated
		plan.Steps = federatedSteps()
	}

	var total time.Duration
	for _, step := range plan.Steps {
		total += time.Duration(float64(baseStepTime) * step.Weight)
	}
	plan.Estimated = total

	return plan
}

// dualSteps is the direct dual-mapping pipeline.
func dualSteps() []Step {
	return []Step{
		{Name: "collect-piece-certificates", Weight: 1.0},
		{Name: "resolve-dual", DependsOn: []string{"collect-piece-certificates"}, Weight: 0.5},
		{Name: "map-threshold", DependsOn: []string{"resolve-dual"}, Weight: 0.5},
		{Name: "merge-votes", DependsOn: []string{"collect-piece-certificates"}, Weight: 1.0},
		{Name: "issue-certificate", DependsOn: []string{"map-threshold", "merge-votes"}, Weight: 1.0},
	}
}

// hierarchicalSteps pairs pieces before the final dual mapping.
func hierarchicalSteps() []Step {
	return []Step{
		{Name: "collect-piece-certificates", Weight: 1.0},
		{Name: "pair-pieces", DependsOn: []string{"collect-piece-certificates"}, Weight: 1.5},
		{Name: "recover-pairs", DependsOn: []string{"pair-pieces"}, Weight: 2.0},
		{Name: "resolve-dual", DependsOn: []string{"recover-pairs"}, Weight: 0.5},
		{Name: "map-threshold", DependsOn: []string{"resolve-dual"}, Weight: 0.5},
		{Name: "issue-certificate", DependsOn: []string{"map-threshold"}, Weight: 1.0},
	}
}

// federatedSteps delegates per-region recovery before unification.
func federatedSteps() []Step {
	return []Step{
		{Name: "elect-region-coordinators", Weight: 2.0},
		{Name: "collect-piece-certificates", DependsOn: []string{"elect-region-coordinators"}, Weight: 1.5},
		{Name: "recover-regions", DependsOn: []string{"collect-piece-certificates"}, Weight: 3.0},
		{Name: "resolve-dual", DependsOn: []string{"recover-regions"}, Weight: 0.5},
		{Name: "map-threshold", DependsOn: []string{"resolve-dual"}, Weight: 0.5},
		{Name: "merge-region-certificates", DependsOn: []string{"recover-regions"}, Weight: 2.0},
		{Name: "issue-certificate", DependsOn: []string{"map-threshold", "merge-region-certificates"}, Weight: 1.0},
	}
}
