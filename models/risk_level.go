package models

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

var riskLevelHumanName = map[RiskLevel]string{
	RiskLevelLow:      "Baixo",
	RiskLevelMedium:   "Médio",
	RiskLevelHigh:     "Alto",
	RiskLevelCritical: "Crítico",
}

func (r RiskLevel) ToHuman() string {
	if human, exist := riskLevelHumanName[r]; exist {
		return human
	}
	return string(r)
}

// Score boundaries on the normalized scale, where a larger score means higher risk.
const (
	MediumRiskScore   = 2.5
	HighRiskScore     = 3.5
	CriticalRiskScore = 4.0
)
