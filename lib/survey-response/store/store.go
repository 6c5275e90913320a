package responsestore

import (
	"context"
	dbmodels "nr1-risk-backend/models/db"

	"gorm.io/gorm"
)

const insertBatchSize = 200

type Provider interface {
	ListPage(ctx context.Context, assessmentID string, offset, limit int) (list []dbmodels.Response, err error)
	CreateBatch(ctx context.Context, list []dbmodels.Response) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// ListPage keeps a stable order so consecutive offsets never skip or repeat rows.
func (i impl) ListPage(ctx context.Context, assessmentID string, offset, limit int) (list []dbmodels.Response, err error) {
	list = []dbmodels.Response{}
	err = i.db.
		WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at, id").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CreateBatch(ctx context.Context, list []dbmodels.Response) error {
	if len(list) == 0 {
		return nil
	}
	return i.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(&list, insertBatchSize).Error
		})
}
