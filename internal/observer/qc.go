package observer

import (
	"fmt"

	"github.com/guidekit/guidekit/pkg/domain"
)

// CurrentState takes a point-in-time snapshot of the open design.
// Each sub-query failure degrades its field to the zero value; the
// state itself is always returned.
func (o *Observer) CurrentState() domain.DesignState {
	state := domain.DesignState{SelectedEntities: []domain.SelectedEntity{}}

	if entries, err := o.host.Timeline(); err == nil {
		state.HasDesign = true
		state.FeatureCount = len(entries)
	} else {
		return state
	}
	if n, err := o.host.SketchCount(); err == nil {
		state.SketchCount = n
	}
	if n, err := o.host.BodyCount(); err == nil {
		state.BodyCount = n
	}
	if o.inSketch() {
		if name, err := o.host.ActiveSketchName(); err == nil {
			state.ActiveSketch = name
		}
	}
	if sel, err := o.host.Selection(); err == nil {
		state.SelectedEntities = sel
	}
	return state
}

// CheckQCConditions evaluates each condition independently against one
// design-state snapshot. A condition that cannot be evaluated is reported
// as failed; evaluation of the remaining conditions always continues, and
// the result list has exactly one entry per input condition.
func (o *Observer) CheckQCConditions(conditions []domain.QCCondition) []domain.QCResult {
	state := o.CurrentState()

	results := make([]domain.QCResult, 0, len(conditions))
	for _, cond := range conditions {
		results = append(results, evalCondition(state, cond))
	}
	return results
}

func evalCondition(state domain.DesignState, cond domain.QCCondition) (result domain.QCResult) {
	result = domain.QCResult{Condition: cond}
	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Message = fmt.Sprintf("condition evaluation failed: %v", r)
		}
	}()

	switch cond.Type {
	case domain.QCSketchExists:
		result.Passed = state.SketchCount > 0
	case domain.QCBodyExists:
		result.Passed = state.BodyCount > 0
	case domain.QCFeatureCountGTE:
		result.Passed = state.FeatureCount >= cond.Expected
	case domain.QCBodyCountGTE:
		result.Passed = state.BodyCount >= cond.Expected
	case domain.QCNotInSketch:
		result.Passed = state.ActiveSketch == ""
	case domain.QCInSketch:
		result.Passed = state.ActiveSketch != ""
	default:
		result.Message = fmt.Sprintf("unknown condition type: %q", cond.Type)
	}
	return result
}
