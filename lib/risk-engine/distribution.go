package riskengine

import (
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	"sort"
	"strconv"
	"strings"
)

// Distribution counts literal answer values of a single question.
type Distribution struct {
	counts map[string]int
	total  int
}

func NewDistribution() *Distribution {
	return &Distribution{counts: map[string]int{}}
}

func (d *Distribution) Add(value string) {
	d.counts[strings.TrimSpace(value)]++
	d.total++
}

func (d *Distribution) Total() int {
	return d.total
}

// Items orders values numerically when every value is a number, lexically otherwise.
func (d *Distribution) Items() []analyticsapimodels.DistributionItem {
	result := make([]analyticsapimodels.DistributionItem, 0, len(d.counts))
	if d.total == 0 {
		return result
	}
	for value, count := range d.counts {
		result = append(result, analyticsapimodels.DistributionItem{
			Value:      value,
			Count:      count,
			Percentage: Round2(float64(count) / float64(d.total) * 100),
		})
	}
	numeric := make(map[string]float64, len(result))
	allNumeric := true
	for _, item := range result {
		n, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			allNumeric = false
			break
		}
		numeric[item.Value] = n
	}
	sort.Slice(result, func(i, j int) bool {
		if allNumeric {
			return numeric[result[i].Value] < numeric[result[j].Value]
		}
		return result[i].Value < result[j].Value
	})
	return result
}
