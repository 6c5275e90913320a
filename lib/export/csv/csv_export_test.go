package csvexport

import (
	"bytes"
	"encoding/csv"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExportResponses(t *testing.T) {
	t.Run(`rows and header check`, func(t *testing.T) {
		score := 4.0
		rows := []analyticsapimodels.DetailedRow{
			{
				AnonymousID:     "anon-1",
				QuestionID:      "q-1",
				QuestionText:    "Tenho prazos impossíveis; sempre",
				CategoryLabel:   "Demandas e Ritmo de Trabalho",
				Value:           "2",
				NormalizedScore: &score,
				CreatedAt:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			{
				AnonymousID:   "anon-1",
				QuestionID:    "q-2",
				QuestionText:  "Sugestões",
				CategoryLabel: "Sugestões",
				Value:         "Mais pausas",
				CreatedAt:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			},
		}
		buf, err := ExportResponses(rows)
		require.Nil(t, err)
		data := buf.Bytes()
		require.True(t, bytes.HasPrefix(data, utf8BOM))

		r := csv.NewReader(bytes.NewReader(data[len(utf8BOM):]))
		r.Comma = Separator
		records, err := r.ReadAll()
		require.Nil(t, err)
		require.Len(t, records, 3)
		require.Equal(t, responseHeaders, records[0])
		require.Equal(t, "Tenho prazos impossíveis; sempre", records[1][2])
		require.Equal(t, "4", records[1][5])
		require.Equal(t, "2026-03-10", records[1][6])
		require.Equal(t, "", records[2][5])
	})

	t.Run(`empty export check`, func(t *testing.T) {
		buf, err := ExportResponses(nil)
		require.Nil(t, err)
		require.Contains(t, buf.String(), "participante;pergunta_id")
	})
}
