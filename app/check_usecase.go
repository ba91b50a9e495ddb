package app

import (
	"fmt"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/ludo-technologies/archscan/internal/version"
)

// Check rule names
const (
	RuleNoGodClass   = "no-god-class"
	RuleNoSuspicious = "no-suspicious"
	RuleNoHubs       = "no-hubs"
)

// CheckOptions selects which findings fail the gate
type CheckOptions struct {
	FailOnSuspicious bool
	AllowHubs        bool
}

// CheckUseCase turns an analysis response into a pass/fail verdict
type CheckUseCase struct {
	options CheckOptions
}

// NewCheckUseCase creates a check use case
func NewCheckUseCase(options CheckOptions) *CheckUseCase {
	return &CheckUseCase{options: options}
}

// Evaluate builds the check result for resp. Suspicious classes are
// reported as warnings unless FailOnSuspicious is set.
func (uc *CheckUseCase) Evaluate(resp *domain.AnalysisResponse) *domain.CheckResult {
	result := &domain.CheckResult{
		Passed:     true,
		ExitCode:   constants.ExitPass,
		Violations: []domain.CheckViolation{},
		Version:    version.GetVersion(),
	}
	if resp == nil {
		return result
	}

	result.GeneratedAt = resp.GeneratedAt
	result.Duration = resp.DurationMs
	result.Summary = domain.CheckSummary{
		Diagram:         resp.Diagram,
		ClassesAnalyzed: resp.Summary.Classes,
		GodClasses:      resp.Summary.GodClasses,
		Suspicious:      resp.Summary.Suspicious,
		Hubs:            len(resp.Hubs),
	}

	godThreshold := fmt.Sprintf("%.2f", resp.Thresholds.GodClassScore())
	suspiciousThreshold := fmt.Sprintf("%.2f", resp.Thresholds.SuspiciousScore())

	for _, f := range resp.GodClasses {
		switch f.Label {
		case domain.LabelGodClass:
			result.Passed = false
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  constants.CategoryGodClass,
				Rule:      RuleNoGodClass,
				Severity:  "error",
				Message:   fmt.Sprintf("Class '%s' is a god class (score %.2f)", f.Class, f.Score),
				Class:     f.Class,
				Actual:    fmt.Sprintf("%.2f", f.Score),
				Threshold: godThreshold,
			})
		case domain.LabelSuspicious:
			severity := "warning"
			if uc.options.FailOnSuspicious {
				severity = "error"
				result.Passed = false
			}
			result.Violations = append(result.Violations, domain.CheckViolation{
				Category:  constants.CategoryGodClass,
				Rule:      RuleNoSuspicious,
				Severity:  severity,
				Message:   fmt.Sprintf("Class '%s' is suspicious (score %.2f)", f.Class, f.Score),
				Class:     f.Class,
				Actual:    fmt.Sprintf("%.2f", f.Score),
				Threshold: suspiciousThreshold,
			})
		}
	}

	for _, h := range resp.Hubs {
		severity := "error"
		if uc.options.AllowHubs {
			severity = "warning"
		} else {
			result.Passed = false
		}
		result.Violations = append(result.Violations, domain.CheckViolation{
			Category: constants.CategoryHubLike,
			Rule:     RuleNoHubs,
			Severity: severity,
			Message:  fmt.Sprintf("Class '%s' is a hub-like dependency (degree %d)", h.Class, h.Degree),
			Class:    h.Class,
			Actual:   fmt.Sprintf("%d", h.Degree),
		})
	}

	result.Summary.TotalViolations = len(result.Violations)
	if !result.Passed {
		result.ExitCode = constants.ExitViolation
	}
	return result
}
