package graph

import (
	"k8s.io/klog/v2"

	"github.com/lattice-ml/lattice/internal/netdef"
)

// stateMeetsRule reports whether a runtime state satisfies one
// include/exclude rule. It fails closed on the first unmet
// sub-condition, checking phase, then min level, then max level, then
// required stages, then forbidden stages. The trace lines are
// observational only.
func stateMeetsRule(state netdef.State, rule netdef.Rule, unitName string) bool {
	if rule.Phase != nil && *rule.Phase != state.Phase {
		klog.V(1).Infof("state phase (%s) differed from the phase (%s) specified by a rule in unit %s",
			state.Phase, *rule.Phase, unitName)
		return false
	}
	if rule.MinLevel != nil && state.Level < *rule.MinLevel {
		klog.V(1).Infof("state level (%d) is below the min_level (%d) specified by a rule in unit %s",
			state.Level, *rule.MinLevel, unitName)
		return false
	}
	if rule.MaxLevel != nil && state.Level > *rule.MaxLevel {
		klog.V(1).Infof("state level (%d) is above the max_level (%d) specified by a rule in unit %s",
			state.Level, *rule.MaxLevel, unitName)
		return false
	}
	// The state must contain ALL of the rule's stages.
	for _, stage := range rule.Stages {
		if !hasStage(state, stage) {
			klog.V(1).Infof("state did not contain stage %q specified by a rule in unit %s", stage, unitName)
			return false
		}
	}
	// The state must contain NONE of the rule's not_stages.
	for _, stage := range rule.NotStages {
		if hasStage(state, stage) {
			klog.V(1).Infof("state contained a not_stage %q specified by a rule in unit %s", stage, unitName)
			return false
		}
	}
	return true
}

func hasStage(state netdef.State, stage string) bool {
	for _, s := range state.Stages {
		if s == stage {
			return true
		}
	}
	return false
}
