package dbmodels

import "time"

type Response struct {
	ID           string    `gorm:"primaryKey;default:uuid_generate_v4()"`
	AssessmentID string    `gorm:"type:varchar(36);index:idx_response_assessment"`
	QuestionID   string    `gorm:"type:varchar(36);index"`
	AnonymousID  string    `gorm:"type:varchar(36);index"`
	Value        string    `gorm:"type:text"`
	MemberID     *string   `gorm:"type:varchar(36)"` // only used to resolve the department
	CreatedAt    time.Time `gorm:"index:idx_response_assessment"`
}

// ParticipantDepartment links an anonymous participant to the department of its member.
type ParticipantDepartment struct {
	AnonymousID  string
	DepartmentID string
}
