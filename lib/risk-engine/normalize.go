package riskengine

import (
	"math"
	"nr1-risk-backend/models"
	dbmodels "nr1-risk-backend/models/db"
	"strconv"
	"strings"
)

// Normalize turns a raw answer into a score where a larger value always means higher risk.
// ok is false when the answer does not take part in scoring.
func Normalize(question dbmodels.Question, rawValue string) (score float64, ok bool) {
	if !question.Type.IsScorable() {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	if value < models.LikertMin || value > models.LikertMax {
		return 0, false
	}
	return NormalizeValue(value, question.RiskInverted), true
}

// NormalizeValue flips the scale for questions where a high answer means low risk.
func NormalizeValue(value float64, riskInverted bool) float64 {
	if riskInverted {
		return value
	}
	return models.LikertMax + models.LikertMin - value
}

func ClassifyRisk(score float64) models.RiskLevel {
	switch {
	case score >= models.HighRiskScore:
		return models.RiskLevelHigh
	case score >= models.MediumRiskScore:
		return models.RiskLevelMedium
	}
	return models.RiskLevelLow
}

// AlertLevel returns the alert level crossed by score and the threshold it crossed.
func AlertLevel(score float64) (level models.RiskLevel, threshold float64, crossed bool) {
	switch {
	case score >= models.CriticalRiskScore:
		return models.RiskLevelCritical, models.CriticalRiskScore, true
	case score >= models.HighRiskScore:
		return models.RiskLevelHigh, models.HighRiskScore, true
	}
	return "", 0, false
}

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
