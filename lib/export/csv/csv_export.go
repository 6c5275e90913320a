package csvexport

import (
	"bytes"
	"encoding/csv"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	"strconv"

	"github.com/pkg/errors"
)

const Separator = ';'

// utf8BOM lets spreadsheet tools detect the encoding of accented labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var responseHeaders = []string{"participante", "pergunta_id", "pergunta", "categoria", "resposta", "pontuacao_normalizada", "data"}

func ExportResponses(rows []analyticsapimodels.DetailedRow) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	buf.Write(utf8BOM)
	w := csv.NewWriter(buf)
	w.Comma = Separator
	if err := w.Write(responseHeaders); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar cabeçalho do csv")
	}
	for _, item := range rows {
		score := ""
		if item.NormalizedScore != nil {
			score = strconv.FormatFloat(*item.NormalizedScore, 'f', -1, 64)
		}
		record := []string{
			item.AnonymousID,
			item.QuestionID,
			item.QuestionText,
			item.CategoryLabel,
			item.Value,
			score,
			item.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "erro ao gerar linha do csv")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar csv")
	}
	return buf, nil
}
