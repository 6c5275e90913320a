package store

import (
	"context"
	dbmodels "nr1-risk-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	ListByOrganization(ctx context.Context, orgID string) (list []dbmodels.Department, err error)
	EmployeeCounts(ctx context.Context, orgID string) (list []dbmodels.DepartmentHeadcount, err error)
	ParticipantDepartments(ctx context.Context, orgID, assessmentID string) (list []dbmodels.ParticipantDepartment, err error)
	IsMember(ctx context.Context, orgID, memberID string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) ListByOrganization(ctx context.Context, orgID string) (list []dbmodels.Department, err error) {
	list = []dbmodels.Department{}
	err = i.db.
		WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) EmployeeCounts(ctx context.Context, orgID string) (list []dbmodels.DepartmentHeadcount, err error) {
	list = []dbmodels.DepartmentHeadcount{}
	err = i.db.
		WithContext(ctx).
		Model(&dbmodels.DepartmentMember{}).
		Select("department_id, count(*) as employee_count").
		Where("organization_id = ?", orgID).
		Where("is_active = ?", true).
		Group("department_id").
		Scan(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "erro ao contar funcionários por departamento")
	}
	return list, nil
}

// ParticipantDepartments resolves anonymous participants to departments through
// the member linkage stored with their responses.
func (i impl) ParticipantDepartments(ctx context.Context, orgID, assessmentID string) (list []dbmodels.ParticipantDepartment, err error) {
	list = []dbmodels.ParticipantDepartment{}
	err = i.db.
		WithContext(ctx).
		Table("responses r").
		Select("DISTINCT r.anonymous_id, m.department_id").
		Joins("JOIN department_members m ON m.id = r.member_id").
		Where("r.assessment_id = ?", assessmentID).
		Where("m.organization_id = ?", orgID).
		Where("r.member_id IS NOT NULL").
		Scan(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "erro ao vincular participantes aos departamentos")
	}
	return list, nil
}

func (i impl) IsMember(ctx context.Context, orgID, memberID string) (bool, error) {
	var rowCount int64
	err := i.db.
		WithContext(ctx).
		Model(&dbmodels.DepartmentMember{}).
		Where("id = ?", memberID).
		Where("organization_id = ?", orgID).
		Where("is_active = ?", true).
		Count(&rowCount).
		Error
	if err != nil {
		return false, errors.Wrap(err, "erro ao verificar funcionário")
	}
	return rowCount != 0, nil
}
