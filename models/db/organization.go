package dbmodels

import "nr1-risk-backend/models"

type Organization struct {
	BaseModel
	Name     string `gorm:"type:varchar(255)"`
	Cnpj     string `gorm:"type:varchar(14)"`
	IsActive bool
}

type OrganizationUser struct {
	BaseOrgModel
	FirstName string          `gorm:"type:varchar(150)"`
	LastName  string          `gorm:"type:varchar(150)"`
	Email     string          `gorm:"type:varchar(255)"`
	Role      models.UserRole `gorm:"type:varchar(50)"`
	IsActive  bool
}
