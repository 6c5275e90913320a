package analytics

import (
	"bytes"
	"context"
	"fmt"
	csvexport "nr1-risk-backend/lib/export/csv"
	pdfexport "nr1-risk-backend/lib/export/pdf"
	xlsexport "nr1-risk-backend/lib/export/xls"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ExportFormat string

const (
	FormatXlsx ExportFormat = "xlsx"
	FormatCsv  ExportFormat = "csv"
	FormatPdf  ExportFormat = "pdf"
)

var ErrUnsupportedFormat = errors.New("formato de exportação não suportado")

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatXlsx:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCsv:
		return "text/csv; charset=utf-8"
	case FormatPdf:
		return "application/pdf"
	}
	return "application/octet-stream"
}

type ExportFile struct {
	FileName    string
	ContentType string
	Body        *bytes.Buffer
}

func (i impl) ExportReport(ctx context.Context, orgID, assessmentID string, format ExportFormat) (*ExportFile, error) {
	if format != FormatXlsx && format != FormatPdf {
		return nil, ErrUnsupportedFormat
	}
	report, err := i.ComputeReportData(ctx, orgID, assessmentID)
	if err != nil {
		return nil, err
	}
	var body *bytes.Buffer
	switch format {
	case FormatXlsx:
		body, err = xlsexport.Instance.ExportReport(report)
	case FormatPdf:
		var data []byte
		data, err = pdfexport.GenerateReport(report)
		body = bytes.NewBuffer(data)
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar relatório")
	}
	file := &ExportFile{
		FileName:    fmt.Sprintf("relatorio-%s.%s", assessmentID, format),
		ContentType: format.ContentType(),
		Body:        body,
	}
	i.archiveFile(ctx, orgID, assessmentID, format, file)
	return file, nil
}

// ExportResponses returns a nil file when the export gate does not allow literal answers.
func (i impl) ExportResponses(ctx context.Context, orgID, assessmentID string, format ExportFormat) (*ExportFile, analyticsapimodels.ExportDecision, error) {
	if format != FormatXlsx && format != FormatCsv {
		return nil, analyticsapimodels.ExportDecision{}, ErrUnsupportedFormat
	}
	export, err := i.ExportResponsesDetailed(ctx, orgID, assessmentID)
	if err != nil {
		return nil, analyticsapimodels.ExportDecision{}, err
	}
	if !export.Gate.Allowed() {
		return nil, export.Gate, nil
	}
	var body *bytes.Buffer
	switch format {
	case FormatXlsx:
		body, err = xlsexport.Instance.ExportResponses(export.Rows)
	case FormatCsv:
		body, err = csvexport.ExportResponses(export.Rows)
	}
	if err != nil {
		return nil, export.Gate, errors.Wrap(err, "erro ao gerar exportação de respostas")
	}
	file := &ExportFile{
		FileName:    fmt.Sprintf("respostas-%s.%s", assessmentID, format),
		ContentType: format.ContentType(),
		Body:        body,
	}
	i.archiveFile(ctx, orgID, assessmentID, format, file)
	return file, export.Gate, nil
}

// archiveFile stores a copy in the object storage. Failures are only logged.
func (i impl) archiveFile(ctx context.Context, orgID, assessmentID string, format ExportFormat, file *ExportFile) {
	objectName, err := i.archive.ArchiveReport(ctx, orgID, assessmentID, string(format), file.ContentType, file.Body.Bytes())
	logger := log.
		WithField("organization_id", orgID).
		WithField("assessment_id", assessmentID)
	if err != nil {
		logger.WithError(err).Warn("erro ao arquivar exportação")
		return
	}
	if objectName != "" {
		logger.WithField("object", objectName).Info("exportação arquivada")
	}
}
