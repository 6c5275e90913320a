package dbmodels

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Department struct {
	BaseOrgModel
	ParentID string `gorm:"type:varchar(36);index"`
	Name     string `gorm:"type:varchar(255)"`
}

func (d *Department) AfterDelete(tx *gorm.DB) (err error) {
	if d.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("department_id = ?", d.ID).Delete(&DepartmentMember{})
	return
}

func (d *Department) Validate() error {
	if err := d.BaseOrgModel.Validate(); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.New("nome do departamento não informado")
	}
	return nil
}

// DepartmentMember is an employee of the organization assigned to a department.
type DepartmentMember struct {
	BaseOrgModel
	DepartmentID string `gorm:"type:varchar(36);index"`
	FullName     string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255)"`
	IsActive     bool
}

type DepartmentHeadcount struct {
	DepartmentID  string
	EmployeeCount int
}
