package riskengine

import (
	"context"
	dbmodels "nr1-risk-backend/models/db"

	"github.com/pkg/errors"
)

const DefaultPageSize = 1000

type PageReader interface {
	ListPage(ctx context.Context, assessmentID string, offset, limit int) ([]dbmodels.Response, error)
}

// FoldResponses reads every response of an assessment page by page, in offset order.
// The first failed page aborts the whole fold.
func FoldResponses(ctx context.Context, reader PageReader, assessmentID string, pageSize int, visit func(dbmodels.Response)) error {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := reader.ListPage(ctx, assessmentID, offset, pageSize)
		if err != nil {
			return errors.Wrapf(err, "erro ao ler respostas (offset %d)", offset)
		}
		for _, response := range page {
			visit(response)
		}
		if len(page) < pageSize {
			return nil
		}
		offset += len(page)
	}
}
