package dbmodels

import (
	"nr1-risk-backend/models"
	"time"

	"github.com/pkg/errors"
)

type Assessment struct {
	BaseOrgModel
	Title     string                  `gorm:"type:varchar(255)"`
	Status    models.AssessmentStatus `gorm:"type:varchar(20)"`
	StartsAt  *time.Time
	EndsAt    *time.Time
	Questions []Question `gorm:"foreignKey:AssessmentID"`
}

func (a Assessment) Validate() error {
	if err := a.BaseOrgModel.Validate(); err != nil {
		return err
	}
	if a.Title == "" {
		return errors.New("título da avaliação não informado")
	}
	return nil
}

func (a Assessment) IsOpen(now time.Time) bool {
	if a.Status != models.AssessmentStatusActive {
		return false
	}
	if a.StartsAt != nil && now.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && now.After(*a.EndsAt) {
		return false
	}
	return true
}

// Question must not change category, type or risk_inverted once responses exist.
type Question struct {
	BaseModel
	AssessmentID string              `gorm:"type:varchar(36);index"`
	Position     int                 `gorm:"index"`
	Text         string              `gorm:"type:text"`
	Category     models.RiskCategory `gorm:"type:varchar(50)"`
	Type         models.QuestionType `gorm:"type:varchar(30)"`
	RiskInverted bool
	Required     bool
}
