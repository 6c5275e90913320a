package riskengine

import (
	"context"
	"fmt"
	"nr1-risk-backend/models"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	dbmodels "nr1-risk-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func likert(id string, category models.RiskCategory, inverted bool) dbmodels.Question {
	q := dbmodels.Question{
		AssessmentID: "a1",
		Category:     category,
		Type:         models.QuestionTypeLikertScale,
		RiskInverted: inverted,
	}
	q.ID = id
	return q
}

func answer(anonymousID, questionID, value string) dbmodels.Response {
	return dbmodels.Response{
		AssessmentID: "a1",
		QuestionID:   questionID,
		AnonymousID:  anonymousID,
		Value:        value,
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNormalize(t *testing.T) {
	t.Run(`polarity check`, func(t *testing.T) {
		for r := 1; r <= 5; r++ {
			raw := fmt.Sprint(r)
			score, ok := Normalize(likert("q1", models.CategoryAnchors, true), raw)
			require.True(t, ok)
			require.Equal(t, float64(r), score)

			score, ok = Normalize(likert("q1", models.CategoryAnchors, false), raw)
			require.True(t, ok)
			require.Equal(t, float64(6-r), score)
		}
		require.Equal(t, 5.0, NormalizeValue(1, false))
		require.Equal(t, 1.0, NormalizeValue(5, false))
	})

	t.Run(`not scorable check`, func(t *testing.T) {
		q := likert("q1", models.CategoryAnchors, true)
		for _, raw := range []string{"", "abc", "0", "6", "5.5", "-1", "NaN"} {
			_, ok := Normalize(q, raw)
			require.False(t, ok, raw)
		}
		_, ok := Normalize(q, " 4 ")
		require.True(t, ok)

		q.Type = models.QuestionTypeText
		_, ok = Normalize(q, "3")
		require.False(t, ok)
	})
}

func TestClassifyRisk(t *testing.T) {
	t.Run(`post-normalization direction check`, func(t *testing.T) {
		require.Equal(t, models.RiskLevelLow, ClassifyRisk(0))
		require.Equal(t, models.RiskLevelLow, ClassifyRisk(2.49))
		require.Equal(t, models.RiskLevelMedium, ClassifyRisk(2.5))
		require.Equal(t, models.RiskLevelMedium, ClassifyRisk(3.49))
		require.Equal(t, models.RiskLevelHigh, ClassifyRisk(3.5))
		require.Equal(t, models.RiskLevelHigh, ClassifyRisk(5))
	})

	t.Run(`alert level check`, func(t *testing.T) {
		_, _, crossed := AlertLevel(3.49)
		require.False(t, crossed)
		level, threshold, crossed := AlertLevel(3.5)
		require.True(t, crossed)
		require.Equal(t, models.RiskLevelHigh, level)
		require.Equal(t, 3.5, threshold)
		level, threshold, _ = AlertLevel(4.2)
		require.Equal(t, models.RiskLevelCritical, level)
		require.Equal(t, 4.0, threshold)
	})
}

func TestCategoryAggregator(t *testing.T) {
	registry := models.DefaultCategoryRegistry()
	guard := NewGuard(models.DefaultAnonymityThresholds())

	t.Run(`mixed polarity scenario check`, func(t *testing.T) {
		agg := NewCategoryAggregator(registry)
		inverted := likert("q1", models.CategoryDemandsAndPace, true)
		straight := likert("q2", models.CategoryDemandsAndPace, false)
		for i := 0; i < 5; i++ {
			agg.Add(answer(fmt.Sprintf("p%d", i), "q1", "5"), inverted)
			agg.Add(answer(fmt.Sprintf("p%d", i), "q2", "1"), straight)
		}
		groups := agg.Groups()
		require.Len(t, groups, registry.Len())
		require.Equal(t, string(models.CategoryDemandsAndPace), groups[0].Key)
		require.Equal(t, 5.0, groups[0].Mean)
		require.Equal(t, 10, groups[0].ScoredCount)
		require.Equal(t, 5, groups[0].ParticipantCount)
		require.Equal(t, 2, groups[0].QuestionCount)

		info, _ := registry.Get(models.CategoryDemandsAndPace)
		result := guard.Category(info, groups[0], guard.Assessment(5))
		require.Equal(t, analyticsapimodels.StateComputed, result.State)
		require.Equal(t, 5.0, result.AverageScore)
		require.Equal(t, models.RiskLevelHigh, result.RiskLevel)
	})

	t.Run(`completeness check`, func(t *testing.T) {
		agg := NewCategoryAggregator(registry)
		groups := agg.Groups()
		require.Len(t, groups, registry.Len())
		for idx, item := range registry.List() {
			require.Equal(t, string(item.Category), groups[idx].Key)
			result := guard.Category(item, groups[idx], Decision{State: analyticsapimodels.StateComputed})
			require.Equal(t, analyticsapimodels.StateNoData, result.State)
			require.False(t, result.HasData)
			require.Equal(t, 0.0, result.AverageScore)
			require.Equal(t, models.RiskLevelLow, result.RiskLevel)
		}
	})

	t.Run(`text answers are not scored check`, func(t *testing.T) {
		agg := NewCategoryAggregator(registry)
		text := dbmodels.Question{Category: models.CategorySuggestions, Type: models.QuestionTypeText}
		text.ID = "q9"
		agg.Add(answer("p1", "q9", "mais pausas"), text)
		for _, g := range agg.Groups() {
			if g.Key == string(models.CategorySuggestions) {
				require.False(t, g.HasData)
				require.Equal(t, 0, g.ScoredCount)
				require.Equal(t, 1, g.ResponseCount)
			}
		}
	})

	t.Run(`merge is order independent check`, func(t *testing.T) {
		q := likert("q1", models.CategoryWorkLifeHealth, false)
		values := []string{"1", "2", "3", "4", "5", "2", "2"}
		whole := NewCategoryAggregator(registry)
		left := NewCategoryAggregator(registry)
		right := NewCategoryAggregator(registry)
		for idx, v := range values {
			resp := answer(fmt.Sprintf("p%d", idx), "q1", v)
			whole.Add(resp, q)
			if idx%2 == 0 {
				left.Add(resp, q)
			} else {
				right.Add(resp, q)
			}
		}
		right.Merge(left)
		require.Equal(t, whole.Groups(), right.Groups())
	})
}

func TestGuard(t *testing.T) {
	thresholds := models.DefaultAnonymityThresholds()
	guard := NewGuard(thresholds)

	t.Run(`monotonicity check`, func(t *testing.T) {
		group := Group{Key: "x", Mean: 4.2, HasData: true, ParticipantCount: 3, QuestionCount: 2}
		info := models.CategoryInfo{Category: models.CategoryAnchors, Label: "Âncoras"}
		for count := 1; count < thresholds.Category; count++ {
			group.ScoredCount = count
			result := guard.Category(info, group, Decision{State: analyticsapimodels.StateComputed})
			require.True(t, result.IsSuppressed)
			require.Equal(t, 0.0, result.AverageScore)
			require.Equal(t, 0, result.ResponseCount)
			require.Equal(t, 0, result.ParticipantCount)
			require.Equal(t, 0, result.QuestionCount)
			require.Equal(t, models.RiskLevelLow, result.RiskLevel)
			require.Equal(t, thresholds.Category-count, result.SuppressionInfo.Remaining)
		}
		group.ScoredCount = thresholds.Category
		result := guard.Category(info, group, Decision{State: analyticsapimodels.StateComputed})
		require.False(t, result.IsSuppressed)
		require.Equal(t, 4.2, result.AverageScore)
		require.Nil(t, result.SuppressionInfo)
	})

	t.Run(`qualitative category counts answers check`, func(t *testing.T) {
		info := models.CategoryInfo{Category: models.CategorySuggestions, Label: "Sugestões", Qualitative: true}
		group := Group{ResponseCount: 12, ParticipantCount: 12, QuestionCount: 1}
		result := guard.Category(info, group, Decision{State: analyticsapimodels.StateComputed})
		require.Equal(t, analyticsapimodels.StateComputed, result.State)
		require.True(t, result.IsQualitative)
		require.True(t, result.HasData)
		require.Equal(t, 12, result.ResponseCount)
		require.Equal(t, 12, result.ParticipantCount)
		require.Equal(t, 0.0, result.AverageScore)
		require.Equal(t, models.RiskLevelLow, result.RiskLevel)

		group = Group{ResponseCount: 2, ParticipantCount: 2, QuestionCount: 1}
		result = guard.Category(info, group, Decision{State: analyticsapimodels.StateComputed})
		require.True(t, result.IsSuppressed)
		require.Equal(t, 0, result.ResponseCount)
		require.Equal(t, thresholds.Category-2, result.SuppressionInfo.Remaining)
	})

	t.Run(`assessment cascade check`, func(t *testing.T) {
		assessment := guard.Assessment(2)
		require.True(t, assessment.Suppressed())
		require.Equal(t, 3, assessment.Info.Remaining)
		group := Group{Mean: 3.9, HasData: true, ScoredCount: 50, ParticipantCount: 2}
		for _, info := range models.DefaultCategoryRegistry().List() {
			result := guard.Category(info, group, assessment)
			require.True(t, result.IsSuppressed)
			require.Equal(t, 0.0, result.AverageScore)
		}
		require.True(t, guard.Question(40, assessment).Suppressed())
	})

	t.Run(`zero is no data check`, func(t *testing.T) {
		d := guard.Assessment(0)
		require.Equal(t, analyticsapimodels.StateNoData, d.State)
		require.False(t, d.Suppressed())
	})

	t.Run(`department headcount check`, func(t *testing.T) {
		dept := dbmodels.Department{Name: "Financeiro"}
		dept.ID = "d1"
		group := Group{Mean: 4, HasData: true, ScoredCount: 6, ResponseCount: 6, ParticipantCount: 3}
		result := guard.Department(dept, 3, group)
		require.True(t, result.IsSuppressed)
		require.Equal(t, 0, result.ParticipantCount)
		require.Equal(t, 0, result.ResponseCount)
		require.Equal(t, 0.0, result.AverageScore)
		require.Equal(t, 3, result.EmployeeCount)
		require.Equal(t, 2, result.SuppressionInfo.Remaining)

		result = guard.Department(dept, 8, group)
		require.Equal(t, analyticsapimodels.StateComputed, result.State)
		require.Equal(t, 4.0, result.AverageScore)
		require.Equal(t, models.RiskLevelHigh, result.RiskLevel)
		require.Equal(t, 3, result.ParticipantCount)

		result = guard.Department(dept, 8, Group{})
		require.Equal(t, analyticsapimodels.StateNoData, result.State)
		require.False(t, result.IsSuppressed)

		result = guard.Department(dept, 0, Group{})
		require.Equal(t, analyticsapimodels.StateNoData, result.State)
	})

	t.Run(`export gate strictness check`, func(t *testing.T) {
		for count := thresholds.Category; count < thresholds.DetailedResponses; count++ {
			require.Equal(t, analyticsapimodels.StateComputed, guard.Decide(models.GranularityCategory, count).State)
			require.Equal(t, analyticsapimodels.StateComputed, guard.Decide(models.GranularityQuestion, count).State)
			decision := guard.Export(count)
			require.Equal(t, analyticsapimodels.ExportBlocked, decision.State)
			require.Equal(t, thresholds.DetailedResponses-count, decision.Remaining)
		}
		require.Equal(t, analyticsapimodels.ExportNoData, guard.Export(0).State)
		require.True(t, guard.Export(thresholds.DetailedResponses).Allowed())
	})
}

func TestDistribution(t *testing.T) {
	t.Run(`percentages check`, func(t *testing.T) {
		d := NewDistribution()
		for _, v := range []string{"1", "1", "2", "3", "3", "3"} {
			d.Add(v)
		}
		require.Equal(t, 6, d.Total())
		require.Equal(t, []analyticsapimodels.DistributionItem{
			{Value: "1", Count: 2, Percentage: 33.33},
			{Value: "2", Count: 1, Percentage: 16.67},
			{Value: "3", Count: 3, Percentage: 50},
		}, d.Items())
	})

	t.Run(`numeric ordering check`, func(t *testing.T) {
		d := NewDistribution()
		for _, v := range []string{"10", "9", "2"} {
			d.Add(v)
		}
		items := d.Items()
		require.Equal(t, "2", items[0].Value)
		require.Equal(t, "9", items[1].Value)
		require.Equal(t, "10", items[2].Value)
	})

	t.Run(`empty check`, func(t *testing.T) {
		require.Empty(t, NewDistribution().Items())
	})
}

type pagedReader struct {
	rows    []dbmodels.Response
	offsets []int
	failAt  int
}

func (p *pagedReader) ListPage(_ context.Context, _ string, offset, limit int) ([]dbmodels.Response, error) {
	p.offsets = append(p.offsets, offset)
	if p.failAt > 0 && offset >= p.failAt {
		return nil, errors.New("connection reset")
	}
	if offset >= len(p.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(p.rows) {
		end = len(p.rows)
	}
	return p.rows[offset:end], nil
}

func TestFoldResponses(t *testing.T) {
	makeRows := func(n int) []dbmodels.Response {
		rows := make([]dbmodels.Response, n)
		for i := range rows {
			rows[i] = answer(fmt.Sprintf("p%d", i), "q1", "3")
		}
		return rows
	}

	t.Run(`sequential pages check`, func(t *testing.T) {
		reader := &pagedReader{rows: makeRows(25)}
		seen := 0
		err := FoldResponses(context.TODO(), reader, "a1", 10, func(dbmodels.Response) { seen++ })
		require.Nil(t, err)
		require.Equal(t, 25, seen)
		require.Equal(t, []int{0, 10, 20}, reader.offsets)
	})

	t.Run(`exact multiple check`, func(t *testing.T) {
		reader := &pagedReader{rows: makeRows(20)}
		seen := 0
		err := FoldResponses(context.TODO(), reader, "a1", 10, func(dbmodels.Response) { seen++ })
		require.Nil(t, err)
		require.Equal(t, 20, seen)
		require.Equal(t, []int{0, 10, 20}, reader.offsets)
	})

	t.Run(`failed page aborts check`, func(t *testing.T) {
		reader := &pagedReader{rows: makeRows(25), failAt: 10}
		err := FoldResponses(context.TODO(), reader, "a1", 10, func(dbmodels.Response) {})
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "connection reset")
	})

	t.Run(`cancelled context check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		reader := &pagedReader{rows: makeRows(5)}
		err := FoldResponses(ctx, reader, "a1", 10, func(dbmodels.Response) {})
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, reader.offsets)
	})
}
