package pdfexport

import (
	"bytes"
	"fmt"
	"nr1-risk-backend/models"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 7.0
)

// GenerateReport renders the assessment report summary as an A4 document.
func GenerateReport(report analyticsapimodels.ReportData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252, enough for portuguese accents
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(report.Title), false)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 9, tr("Relatório de Riscos Psicossociais - NR-1"), "", "L", false)
	pdf.SetFont(fontFamily, "", 12)
	pdf.MultiCell(0, lineHeight, tr(report.Title), "", "L", false)
	pdf.MultiCell(0, lineHeight, tr("Gerado em "+report.GeneratedAt.Format("02/01/2006 15:04")), "", "L", false)
	pdf.Ln(4)

	writeSummary(pdf, tr, report.Analytics)
	writeCategories(pdf, tr, report.Analytics.PerCategory)
	writeDepartments(pdf, tr, report.Departments)
	writeSuggestions(pdf, tr, report)

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type translator func(string) string

func sectionTitle(pdf *fpdf.Fpdf, tr translator, title string) {
	pdf.Ln(3)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.SetFont(fontFamily, "", 10)
}

func writeSummary(pdf *fpdf.Fpdf, tr translator, analytics analyticsapimodels.AssessmentAnalytics) {
	sectionTitle(pdf, tr, "Resumo")
	if analytics.State != analyticsapimodels.StateComputed {
		pdf.MultiCell(0, lineHeight, tr(stateLabel(analytics.State, analytics.SuppressionInfo)), "", "L", false)
		return
	}
	lines := []string{
		fmt.Sprintf("Participantes: %d", analytics.TotalParticipants),
		fmt.Sprintf("Perguntas: %d", analytics.TotalQuestions),
		fmt.Sprintf("Taxa de conclusão: %.2f%%", analytics.CompletionRate),
	}
	if analytics.LastResponseDate != nil {
		lines = append(lines, "Última resposta: "+analytics.LastResponseDate.Format("02/01/2006"))
	}
	for _, line := range lines {
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}
}

var tableWidths = []float64{80, 30, 30, 50}

func tableHeader(pdf *fpdf.Fpdf, tr translator, headers ...string) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for idx, header := range headers {
		pdf.CellFormat(tableWidths[idx], lineHeight, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 10)
}

func tableRow(pdf *fpdf.Fpdf, tr translator, cells ...string) {
	for idx, cell := range cells {
		align := "L"
		if idx > 0 {
			align = "C"
		}
		pdf.CellFormat(tableWidths[idx], lineHeight, tr(cell), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func writeCategories(pdf *fpdf.Fpdf, tr translator, list []analyticsapimodels.CategoryResult) {
	sectionTitle(pdf, tr, "Categorias")
	tableHeader(pdf, tr, "Categoria", "Pontuação", "Risco", "Situação")
	for _, item := range list {
		scoreState := item.State
		if item.IsQualitative {
			scoreState = analyticsapimodels.StateNoData
		}
		tableRow(pdf, tr,
			item.Label,
			scoreText(scoreState, item.AverageScore),
			riskText(scoreState, item.RiskLevel),
			stateLabel(item.State, item.SuppressionInfo),
		)
	}
}

func writeDepartments(pdf *fpdf.Fpdf, tr translator, list []analyticsapimodels.DepartmentResult) {
	if len(list) == 0 {
		return
	}
	sectionTitle(pdf, tr, "Departamentos")
	tableHeader(pdf, tr, "Departamento", "Pontuação", "Risco", "Situação")
	for _, item := range list {
		tableRow(pdf, tr,
			item.Name,
			scoreText(item.State, item.AverageScore),
			riskText(item.State, item.RiskLevel),
			stateLabel(item.State, item.SuppressionInfo),
		)
	}
}

func writeSuggestions(pdf *fpdf.Fpdf, tr translator, report analyticsapimodels.ReportData) {
	sectionTitle(pdf, tr, "Sugestões")
	gate := report.SuggestionsGate
	switch {
	case gate.State == analyticsapimodels.ExportBlocked:
		pdf.MultiCell(0, lineHeight, tr(fmt.Sprintf("Ocultas por anonimato (faltam %d participantes)", gate.Remaining)), "", "L", false)
		return
	case len(report.Suggestions) == 0:
		pdf.MultiCell(0, lineHeight, tr("Sem dados"), "", "L", false)
		return
	}
	for _, item := range report.Suggestions {
		pdf.MultiCell(0, lineHeight, tr("- "+item), "", "L", false)
	}
}

func scoreText(state analyticsapimodels.ScoreState, score float64) string {
	if state != analyticsapimodels.StateComputed {
		return "-"
	}
	return fmt.Sprintf("%.2f", score)
}

func riskText(state analyticsapimodels.ScoreState, level models.RiskLevel) string {
	if state != analyticsapimodels.StateComputed {
		return "-"
	}
	return level.ToHuman()
}

func stateLabel(state analyticsapimodels.ScoreState, info *analyticsapimodels.SuppressionInfo) string {
	switch state {
	case analyticsapimodels.StateComputed:
		return "Calculado"
	case analyticsapimodels.StateSuppressed:
		if info != nil {
			return fmt.Sprintf("Oculto (faltam %d)", info.Remaining)
		}
		return "Oculto"
	}
	return "Sem dados"
}
