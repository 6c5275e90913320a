package xlsexport

import (
	"bytes"
	"fmt"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportReport(report analyticsapimodels.ReportData) (*bytes.Buffer, error)
	ExportResponses(rows []analyticsapimodels.DetailedRow) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const (
	summarySheet     = "Resumo"
	categorySheet    = "Categorias"
	departmentSheet  = "Departamentos"
	questionSheet    = "Perguntas"
	suggestionSheet  = "Sugestões"
	responsesSheet   = "Respostas"
	defaultSheetName = "Sheet1"
)

var (
	categoryHeaders   = []string{"Categoria", "Pontuação média", "Nível de risco", "Respostas", "Participantes", "Perguntas", "Situação"}
	departmentHeaders = []string{"Departamento", "Funcionários", "Pontuação média", "Nível de risco", "Participantes", "Respostas", "Situação"}
	questionHeaders   = []string{"Nº", "Pergunta", "Categoria", "Tipo", "Pontuação média", "Nível de risco", "Respostas", "Situação"}
	responseHeaders   = []string{"Participante", "Pergunta", "Categoria", "Resposta", "Pontuação normalizada", "Data"}
)

func (i impl) ExportReport(report analyticsapimodels.ReportData) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("erro ao fechar arquivo")
		}
	}()
	f.SetSheetName(defaultSheetName, summarySheet)
	if err := writeSummary(f, report); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar resumo no xlsx")
	}
	if err := writeCategories(f, report.Analytics.PerCategory); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar categorias no xlsx")
	}
	if err := writeDepartments(f, report.Departments); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar departamentos no xlsx")
	}
	if err := writeQuestions(f, report.Questions); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar perguntas no xlsx")
	}
	if report.SuggestionsGate.Allowed() && len(report.Suggestions) != 0 {
		if err := writeSuggestions(f, report.Suggestions); err != nil {
			return nil, errors.Wrap(err, "erro ao gerar sugestões no xlsx")
		}
	}
	return f.WriteToBuffer()
}

func (i impl) ExportResponses(rows []analyticsapimodels.DetailedRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("erro ao fechar arquivo")
		}
	}()
	sheet := defaultSheetName
	row, err := writeHeader(f, sheet, 0, responseHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar cabeçalho no xlsx")
	}
	if len(rows) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(responseHeaders), row+len(rows)); err != nil {
			return nil, errors.Wrap(err, "erro ao gerar tabela de dados no xlsx")
		}
	}
	for _, item := range rows {
		row++
		var score interface{} = ""
		if item.NormalizedScore != nil {
			score = *item.NormalizedScore
		}
		err = writeRow(f, sheet, row,
			item.AnonymousID,
			item.QuestionText,
			item.CategoryLabel,
			item.Value,
			score,
			item.CreatedAt.Format("02/01/2006"),
		)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar tabela de dados no xlsx")
		}
	}
	f.SetSheetName(sheet, responsesSheet)
	return f.WriteToBuffer()
}

func writeSummary(f *excelize.File, report analyticsapimodels.ReportData) error {
	analytics := report.Analytics
	lastResponse := ""
	if analytics.LastResponseDate != nil {
		lastResponse = analytics.LastResponseDate.Format("02/01/2006")
	}
	lines := [][]interface{}{
		{"Avaliação", report.Title},
		{"Gerado em", report.GeneratedAt.Format("02/01/2006 15:04")},
		{"Situação", stateLabel(analytics.State, analytics.SuppressionInfo)},
		{"Participantes", analytics.TotalParticipants},
		{"Perguntas", analytics.TotalQuestions},
		{"Taxa de conclusão (%)", analytics.CompletionRate},
		{"Última resposta", lastResponse},
	}
	for idx, line := range lines {
		if err := writeRow(f, summarySheet, idx+1, line...); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 30)
}

func writeCategories(f *excelize.File, list []analyticsapimodels.CategoryResult) error {
	if _, err := f.NewSheet(categorySheet); err != nil {
		return err
	}
	row, err := writeHeader(f, categorySheet, 0, categoryHeaders)
	if err != nil {
		return err
	}
	for _, item := range list {
		row++
		err = writeRow(f, categorySheet, row,
			item.Label,
			scoreCell(categoryScoreState(item), item.AverageScore),
			riskCell(categoryScoreState(item), item.RiskLevel.ToHuman()),
			item.ResponseCount,
			item.ParticipantCount,
			item.QuestionCount,
			stateLabel(item.State, item.SuppressionInfo),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeDepartments(f *excelize.File, list []analyticsapimodels.DepartmentResult) error {
	if _, err := f.NewSheet(departmentSheet); err != nil {
		return err
	}
	row, err := writeHeader(f, departmentSheet, 0, departmentHeaders)
	if err != nil {
		return err
	}
	for _, item := range list {
		row++
		err = writeRow(f, departmentSheet, row,
			item.Name,
			item.EmployeeCount,
			scoreCell(item.State, item.AverageScore),
			riskCell(item.State, item.RiskLevel.ToHuman()),
			item.ParticipantCount,
			item.ResponseCount,
			stateLabel(item.State, item.SuppressionInfo),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeQuestions(f *excelize.File, list []analyticsapimodels.QuestionSummary) error {
	if _, err := f.NewSheet(questionSheet); err != nil {
		return err
	}
	row, err := writeHeader(f, questionSheet, 0, questionHeaders)
	if err != nil {
		return err
	}
	for _, item := range list {
		row++
		var score, risk interface{} = "", ""
		if item.HasData {
			score = item.AverageScore
			risk = item.RiskLevel.ToHuman()
		}
		err = writeRow(f, questionSheet, row,
			item.Position,
			item.Text,
			string(item.Category),
			string(item.Type),
			score,
			risk,
			item.ResponseCount,
			stateLabel(item.State, item.SuppressionInfo),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeSuggestions(f *excelize.File, list []string) error {
	if _, err := f.NewSheet(suggestionSheet); err != nil {
		return err
	}
	row, err := writeHeader(f, suggestionSheet, 0, []string{"Sugestão"})
	if err != nil {
		return err
	}
	for _, item := range list {
		row++
		if err = writeColumn(f, suggestionSheet, 1, row, item); err != nil {
			return err
		}
	}
	return f.SetColWidth(suggestionSheet, "A", "A", 80)
}

// categoryScoreState hides score and risk of categories that are never scored.
func categoryScoreState(item analyticsapimodels.CategoryResult) analyticsapimodels.ScoreState {
	if item.IsQualitative {
		return analyticsapimodels.StateNoData
	}
	return item.State
}

func scoreCell(state analyticsapimodels.ScoreState, score float64) interface{} {
	if state != analyticsapimodels.StateComputed {
		return ""
	}
	return score
}

func riskCell(state analyticsapimodels.ScoreState, level string) string {
	if state != analyticsapimodels.StateComputed {
		return ""
	}
	return level
}

func stateLabel(state analyticsapimodels.ScoreState, info *analyticsapimodels.SuppressionInfo) string {
	switch state {
	case analyticsapimodels.StateComputed:
		return "Calculado"
	case analyticsapimodels.StateSuppressed:
		if info != nil {
			return fmt.Sprintf("Oculto por anonimato (faltam %d)", info.Remaining)
		}
		return "Oculto por anonimato"
	}
	return "Sem dados"
}
