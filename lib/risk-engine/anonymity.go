package riskengine

import (
	"nr1-risk-backend/models"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	dbmodels "nr1-risk-backend/models/db"
)

type Decision struct {
	State analyticsapimodels.ScoreState
	Info  *analyticsapimodels.SuppressionInfo
}

func (d Decision) Suppressed() bool {
	return d.State == analyticsapimodels.StateSuppressed
}

// Guard decides which aggregates may leave the system.
type Guard struct {
	thresholds models.AnonymityThresholds
}

func NewGuard(thresholds models.AnonymityThresholds) Guard {
	return Guard{thresholds: thresholds}
}

func (g Guard) Thresholds() models.AnonymityThresholds {
	return g.thresholds
}

// Decide returns NoData for an empty group and Suppressed while count is below the threshold.
func (g Guard) Decide(granularity models.Granularity, count int) Decision {
	if count <= 0 {
		return Decision{State: analyticsapimodels.StateNoData}
	}
	threshold := g.thresholds.For(granularity)
	if count < threshold {
		return suppressed(granularity, threshold, count)
	}
	return Decision{State: analyticsapimodels.StateComputed}
}

func suppressed(granularity models.Granularity, threshold, count int) Decision {
	return Decision{
		State: analyticsapimodels.StateSuppressed,
		Info: &analyticsapimodels.SuppressionInfo{
			Granularity: granularity,
			Threshold:   threshold,
			Remaining:   threshold - count,
		},
	}
}

// Assessment applies the whole-assessment participant threshold.
func (g Guard) Assessment(participants int) Decision {
	return g.Decide(models.GranularityAssessment, participants)
}

// Category discloses a category aggregate; a suppressed assessment suppresses every category.
// Qualitative categories are counted by answers since they never carry a score.
func (g Guard) Category(info models.CategoryInfo, group Group, assessment Decision) analyticsapimodels.CategoryResult {
	result := analyticsapimodels.CategoryResult{
		Category:      info.Category,
		Label:         info.Label,
		RiskLevel:     models.RiskLevelLow,
		IsQualitative: info.Qualitative,
	}
	count := group.ScoredCount
	if info.Qualitative {
		count = group.ResponseCount
	}
	decision := assessment
	if !assessment.Suppressed() {
		decision = g.Decide(models.GranularityCategory, count)
	}
	result.State = decision.State
	result.IsSuppressed = decision.Suppressed()
	result.SuppressionInfo = decision.Info
	if decision.State != analyticsapimodels.StateComputed {
		return result
	}
	if info.Qualitative {
		result.ResponseCount = group.ResponseCount
		result.ParticipantCount = group.ParticipantCount
		result.QuestionCount = group.QuestionCount
		result.HasData = true
		return result
	}
	result.AverageScore = group.Mean
	result.RiskLevel = ClassifyRisk(group.Mean)
	result.ResponseCount = group.ScoredCount
	result.ParticipantCount = group.ParticipantCount
	result.QuestionCount = group.QuestionCount
	result.HasData = group.HasData
	return result
}

// Department discloses a department aggregate based on its employee headcount.
// The headcount itself stays visible when the department is suppressed.
func (g Guard) Department(department dbmodels.Department, employees int, group Group) analyticsapimodels.DepartmentResult {
	result := analyticsapimodels.DepartmentResult{
		DepartmentID:  department.ID,
		Name:          department.Name,
		EmployeeCount: employees,
		RiskLevel:     models.RiskLevelLow,
		State:         analyticsapimodels.StateNoData,
	}
	threshold := g.thresholds.Department
	switch {
	case employees < threshold && (employees > 0 || group.ResponseCount > 0):
		decision := suppressed(models.GranularityDepartment, threshold, employees)
		result.State = decision.State
		result.IsSuppressed = true
		result.SuppressionInfo = decision.Info
		return result
	case employees < threshold || !group.HasData:
		return result
	}
	result.State = analyticsapimodels.StateComputed
	result.AverageScore = group.Mean
	result.RiskLevel = ClassifyRisk(group.Mean)
	result.ParticipantCount = group.ParticipantCount
	result.ResponseCount = group.ResponseCount
	result.HasData = true
	return result
}

// Question decides disclosure of a per-question aggregate using its response count.
func (g Guard) Question(responses int, assessment Decision) Decision {
	if assessment.Suppressed() {
		return assessment
	}
	return g.Decide(models.GranularityQuestion, responses)
}

// Export gates any output carrying literal answers.
func (g Guard) Export(participants int) analyticsapimodels.ExportDecision {
	threshold := g.thresholds.DetailedResponses
	decision := analyticsapimodels.ExportDecision{Threshold: threshold}
	switch {
	case participants <= 0:
		decision.State = analyticsapimodels.ExportNoData
	case participants < threshold:
		decision.State = analyticsapimodels.ExportBlocked
		decision.Remaining = threshold - participants
	default:
		decision.State = analyticsapimodels.ExportAllowed
	}
	return decision
}
