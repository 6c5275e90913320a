package orgstore

import (
	"context"
	"nr1-risk-backend/models"
	dbmodels "nr1-risk-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	ListAdminEmails(ctx context.Context, orgID string) (emails []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) ListAdminEmails(ctx context.Context, orgID string) (emails []string, err error) {
	emails = []string{}
	err = i.db.
		WithContext(ctx).
		Model(&dbmodels.OrganizationUser{}).
		Where("organization_id = ?", orgID).
		Where("role = ?", models.OrgAdminRole).
		Where("is_active = ?", true).
		Where("email <> ''").
		Pluck("email", &emails).
		Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
