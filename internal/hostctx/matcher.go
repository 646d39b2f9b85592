package hostctx

import (
	"fmt"

	"github.com/guidekit/guidekit/pkg/domain"
)

const defaultMismatchReason = "This step requires a specific context"

// Matches reports whether the snapshot satisfies the requirement.
// An empty requirement always matches. Present keys are ANDed: string keys
// compare case-insensitively, boolean keys only constrain when true.
func Matches(snap domain.ContextSnapshot, req domain.Requirement) bool {
	if req.IsZero() {
		return true
	}
	if req.Workspace != "" && !domain.EqualFold(string(snap.Workspace), req.Workspace) {
		return false
	}
	if req.Environment != "" && !domain.EqualFold(string(snap.Environment), req.Environment) {
		return false
	}
	if req.HasActiveDocument && !snap.HasActiveDocument {
		return false
	}
	if req.HasActiveSketch && !snap.HasActiveSketch {
		return false
	}
	return true
}

// DescribeMismatch evaluates every requirement key independently (no
// short-circuit) so all violated constraints are reported, not just the
// first. Matched is true exactly when Mismatches is empty.
func DescribeMismatch(snap domain.ContextSnapshot, req domain.Requirement) domain.MismatchDetails {
	var mismatches []domain.Mismatch

	if req.Workspace != "" && !domain.EqualFold(string(snap.Workspace), req.Workspace) {
		mismatches = append(mismatches, domain.Mismatch{
			Type:     domain.MismatchWorkspace,
			Current:  string(snap.Workspace),
			Required: req.Workspace,
			Message:  fmt.Sprintf("Switch from %s to %s workspace", snap.Workspace, req.Workspace),
		})
	}
	if req.Environment != "" && !domain.EqualFold(string(snap.Environment), req.Environment) {
		mismatches = append(mismatches, domain.Mismatch{
			Type:     domain.MismatchEnvironment,
			Current:  string(snap.Environment),
			Required: req.Environment,
			Message:  fmt.Sprintf("Switch from %s to %s environment", snap.Environment, req.Environment),
		})
	}
	if req.HasActiveDocument && !snap.HasActiveDocument {
		mismatches = append(mismatches, domain.Mismatch{
			Type:     domain.MismatchDocument,
			Current:  "false",
			Required: "true",
			Message:  "Open a document to continue",
		})
	}
	if req.HasActiveSketch && !snap.HasActiveSketch {
		mismatches = append(mismatches, domain.Mismatch{
			Type:     domain.MismatchSketch,
			Current:  "false",
			Required: "true",
			Message:  "Enter sketch edit mode to continue",
		})
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultMismatchReason
	}

	return domain.MismatchDetails{
		Matched:    len(mismatches) == 0,
		Current:    snap,
		Required:   req,
		Mismatches: mismatches,
		Reason:     reason,
	}
}
