package store

import (
	"context"
	"nr1-risk-backend/models"
	dbmodels "nr1-risk-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByID(ctx context.Context, orgID, id string) (rec *dbmodels.Assessment, err error)
	GetPublic(ctx context.Context, id string) (rec *dbmodels.Assessment, err error)
	ListQuestions(ctx context.Context, assessmentID string) (list []dbmodels.Question, err error)
	ListActive(ctx context.Context) (list []dbmodels.Assessment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(ctx context.Context, orgID, id string) (*dbmodels.Assessment, error) {
	rec := dbmodels.Assessment{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		Where("organization_id = ?", orgID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetPublic(ctx context.Context, id string) (*dbmodels.Assessment, error) {
	rec := dbmodels.Assessment{}
	err := i.db.
		WithContext(ctx).
		Where("id = ?", id).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position, id")
		}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListQuestions(ctx context.Context, assessmentID string) (list []dbmodels.Question, err error) {
	list = []dbmodels.Question{}
	err = i.db.
		WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("position, id").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListActive returns active assessments of every organization, without questions.
func (i impl) ListActive(ctx context.Context) (list []dbmodels.Assessment, err error) {
	list = []dbmodels.Assessment{}
	err = i.db.
		WithContext(ctx).
		Where("status = ?", models.AssessmentStatusActive).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar avaliações ativas")
	}
	return list, nil
}
